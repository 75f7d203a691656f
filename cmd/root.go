package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	cfgcmd "nathanbeddoewebdev/swatch/cmd/commands/config"
	"nathanbeddoewebdev/swatch/cmd/commands/convert"
	"nathanbeddoewebdev/swatch/cmd/commands/lookup"
	"nathanbeddoewebdev/swatch/internal/clipboard"
	"nathanbeddoewebdev/swatch/internal/dispatch"
	"nathanbeddoewebdev/swatch/internal/logging"
	"nathanbeddoewebdev/swatch/internal/tui"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "swatch [color]",
		Short: "Generate color palettes from names, hex codes and RGB values",
		Long: `swatch asks a palette service for colors that go with a color name, hex
code or RGB value, and shows them as swatches you can copy to the
clipboard.

Run without arguments in a terminal to open the interactive palette app.
A color argument opens the app with that color already requested.

Quick start:
  swatch                           # Interactive palette app
  swatch name ocean                # Palette for a color name
  swatch hex '#ff8800' --copy 1    # Palette for a hex color, copy the first swatch
  swatch batch red '#00ff00' 0,0,255
  swatch convert 255,136,0         # Offline hex/RGB conversion`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runRoot,
		SilenceUsage: true,
	}

	lookup.AddServiceFlags(cmd)

	cmd.AddCommand(lookup.NameCommand())
	cmd.AddCommand(lookup.HexCommand())
	cmd.AddCommand(lookup.RGBCommand())
	cmd.AddCommand(lookup.BatchCommand())
	cmd.AddCommand(convert.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())

	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return cmd.Help()
	}

	settings, err := lookup.ResolveSettings(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.ForTUI()
	if err != nil {
		return err
	}
	defer closeLog()

	opts := tui.AppOptions{
		Fetcher:   lookup.NewClient(settings, logger),
		Clipboard: clipboard.NewSystem(),
		Logger:    logger,
		Service:   settings.ServiceURL,
	}
	if len(args) == 1 {
		req, err := dispatch.Normalize(dispatch.Detect(args[0]), args[0])
		if err != nil {
			return err
		}
		opts.Initial = &req
	}

	if err := tui.RunPaletteApp(cmd.Context(), opts); err != nil {
		return fmt.Errorf("palette app failed: %w", err)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	var root = rootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
