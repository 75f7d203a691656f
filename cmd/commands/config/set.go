package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/swatch/internal/config"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value. An empty value resets the key\n" +
			"to its default.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  swatch config set service-url http://palette.local:5000\n" +
			"  swatch config set timeout 30s\n" +
			"  swatch config set retries \"\"",
		Args: cobra.ExactArgs(2),
		Run:  runSet,
	}

	return cmd
}

func runSet(cmd *cobra.Command, args []string) {
	value := strings.TrimSpace(args[1])

	spec := config.Lookup(args[0])
	if spec == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown configuration key %q\n", args[0])
		fmt.Fprintf(cmd.ErrOrStderr(), "Valid keys: %s\n", strings.Join(config.KeyNames(), ", "))
		return
	}

	if value != "" && spec.Validate != nil {
		if err := spec.Validate(value); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: invalid value for %s: %v\n", spec.Name, err)
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	if value == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s reset to default\n", spec.Name)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, value)
}
