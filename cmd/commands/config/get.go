package config

import (
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/swatch/internal/config"
	"nathanbeddoewebdev/swatch/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"If no key is provided and running in a terminal, opens an interactive\n" +
			"config viewer where you can browse and edit all settings.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  swatch config get                 # interactive viewer\n" +
			"  swatch config get timeout         # print a single value\n" +
			"  swatch config get --effective     # values after env and defaults",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	cmd.Flags().String("key", "", "Configuration key to fetch (same as the positional argument)")
	cmd.Flags().Bool("effective", false, "Show the values in effect, including environment overrides and defaults")

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	keyFlag, _ := cmd.Flags().GetString("key")
	if len(args) == 1 {
		keyFlag = args[0]
	}
	keyFlag = strings.TrimSpace(keyFlag)
	effective, _ := cmd.Flags().GetBool("effective")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if effective {
		return printEffective(cmd, cfg, keyFlag)
	}

	// No key: open interactive config viewer.
	if keyFlag == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			if err := tui.RunConfigView(); err != nil {
				return fmt.Errorf("config view failed: %w", err)
			}
			return nil
		}

		// Non-interactive: list all stored values.
		for _, spec := range config.Keys {
			value := spec.Get(cfg)
			if value == "" {
				value = "(not set)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", spec.Name, value)
		}
		return nil
	}

	spec, err := lookup(keyFlag)
	if err != nil {
		return err
	}

	value := spec.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}

// printEffective prints resolved settings, for one key or all of them.
func printEffective(cmd *cobra.Command, cfg *config.Config, key string) error {
	s, err := cfg.Resolve()
	if err != nil {
		return err
	}
	values := map[string]string{
		"service-url": s.ServiceURL,
		"timeout":     s.Timeout.String(),
		"retries":     fmt.Sprint(s.Retries),
	}

	if key != "" {
		spec, err := lookup(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), values[spec.Name])
		return nil
	}

	for _, name := range config.KeyNames() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, values[name])
	}
	return nil
}

func lookup(key string) (*config.KeySpec, error) {
	spec := config.Lookup(key)
	if spec == nil {
		return nil, fmt.Errorf("unknown configuration key %q (valid: %s)", key, strings.Join(config.KeyNames(), ", "))
	}
	return spec, nil
}
