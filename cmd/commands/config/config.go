package config

import (
	"nathanbeddoewebdev/swatch/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage swatch configuration",
		Long: "View and modify persistent swatch settings.\n\n" +
			"Configuration is stored at ~/.config/swatch/config.json. Environment\n" +
			"variables (" + config.EnvServiceURL + ", " + config.EnvTimeout + ", " + config.EnvRetries + ")\n" +
			"and command-line flags take precedence over stored values.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
