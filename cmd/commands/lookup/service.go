package lookup

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"nathanbeddoewebdev/swatch/internal/clipboard"
	"nathanbeddoewebdev/swatch/internal/config"
	"nathanbeddoewebdev/swatch/internal/logging"
	"nathanbeddoewebdev/swatch/internal/palette"
	"nathanbeddoewebdev/swatch/internal/retry"
	"nathanbeddoewebdev/swatch/internal/service"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// isTerminal reports whether stdout is an interactive terminal. Tests
// replace it to exercise the non-interactive paths.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// newClipboard returns the clipboard used by --copy.
var newClipboard = func() palette.Clipboard {
	return clipboard.NewSystem()
}

// AddServiceFlags registers the persistent flags shared by every command
// that talks to the palette service.
func AddServiceFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("service-url", "", "Palette service base URL (overrides config and "+config.EnvServiceURL+")")
	cmd.PersistentFlags().String("timeout", "", "Per-request timeout, e.g. 5s (overrides config and "+config.EnvTimeout+")")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log requests and retries to stderr")
}

// ResolveSettings layers the --service-url and --timeout flags over the
// environment, the config file and the defaults.
func ResolveSettings(cmd *cobra.Command) (config.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Settings{}, err
	}
	s, err := cfg.Resolve()
	if err != nil {
		return config.Settings{}, err
	}

	if f := cmd.Flag("service-url"); f != nil && f.Changed {
		v := strings.TrimSpace(f.Value.String())
		if err := config.ValidateServiceURL(v); err != nil {
			return config.Settings{}, fmt.Errorf("--service-url: %w", err)
		}
		s.ServiceURL = v
	}
	if f := cmd.Flag("timeout"); f != nil && f.Changed {
		d, err := config.ParseTimeout(strings.TrimSpace(f.Value.String()))
		if err != nil {
			return config.Settings{}, fmt.Errorf("--timeout: %w", err)
		}
		s.Timeout = d
	}

	return s, nil
}

// Verbose reports whether --verbose was given.
func Verbose(cmd *cobra.Command) bool {
	f := cmd.Flag("verbose")
	return f != nil && f.Value.String() == "true"
}

// NewClient builds a palette service client for s.
func NewClient(s config.Settings, logger *slog.Logger) *service.Client {
	rc := retry.DefaultConfig()
	rc.MaxAttempts = s.Retries
	return service.New(s.ServiceURL,
		service.WithTimeout(s.Timeout),
		service.WithRetry(rc),
		service.WithLogger(logger),
	)
}

// newCommandClient resolves settings for cmd and returns a client that
// logs to the command's stderr.
func newCommandClient(cmd *cobra.Command) (*service.Client, error) {
	s, err := ResolveSettings(cmd)
	if err != nil {
		return nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), Verbose(cmd))
	return NewClient(s, logger), nil
}
