// Package lookup implements the commands that fetch palettes from the
// palette service: name, hex, rgb and batch.
package lookup

import (
	"context"
	"errors"
	"fmt"

	"nathanbeddoewebdev/swatch/internal/dispatch"
	"nathanbeddoewebdev/swatch/internal/palette"
	"nathanbeddoewebdev/swatch/internal/tui"

	"github.com/spf13/cobra"
)

// NameCommand returns the "name" command.
func NameCommand() *cobra.Command {
	return newLookupCommand(dispatch.ModeName, "name [color name]",
		"Generate a palette from a color name",
		`Ask the palette service for a palette derived from a color name.
The name is trimmed and may be up to 25 characters long.

If no name is given and running in a terminal, you are prompted for one
with suggestions from the CSS color names.

Examples:
  swatch name ocean
  swatch name "sky blue" --json
  swatch name sunset --copy 2`)
}

// HexCommand returns the "hex" command.
func HexCommand() *cobra.Command {
	return newLookupCommand(dispatch.ModeHex, "hex [#rrggbb]",
		"Generate a palette from a hex color",
		`Ask the palette service for a palette derived from a hex color.
The value must be "#" followed by exactly six hex digits.

Examples:
  swatch hex '#ff8800'
  swatch hex '#1e90ff' --pick`)
}

// RGBCommand returns the "rgb" command.
func RGBCommand() *cobra.Command {
	return newLookupCommand(dispatch.ModeRGB, "rgb [r,g,b]",
		"Generate a palette from an RGB color",
		`Ask the palette service for a palette derived from an RGB color given
as three comma-separated channels between 0 and 255.

Examples:
  swatch rgb 255,136,0
  swatch rgb "30, 144, 255" --json`)
}

func newLookupCommand(mode dispatch.Mode, use, short, long string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, mode, args)
		},
		SilenceUsage: true,
	}

	cmd.Flags().Bool("json", false, "Print the palette as JSON")
	cmd.Flags().Int("copy", 0, "Copy the swatch with this number (as listed) to the clipboard")
	cmd.Flags().Bool("pick", false, "Choose a swatch to copy interactively")

	return cmd
}

func runLookup(cmd *cobra.Command, mode dispatch.Mode, args []string) error {
	req, err := requestFromArgs(mode, args)
	if err != nil {
		return err
	}

	client, err := newCommandClient(cmd)
	if err != nil {
		return err
	}

	resp, err := fetch(cmd.Context(), client, req)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printPaletteJSON(cmd, req, resp)
	}

	presenter := palette.NewPresenter(newClipboard(), palette.NotifierFunc(func(ack palette.Ack) {
		if ack.OK() {
			fmt.Fprintln(cmd.OutOrStdout(), ack.Message())
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), ack.Message())
		}
	}))
	swatches := presenter.Present(resp, textDisplay{w: cmd.OutOrStdout()})

	swatch, ok, err := chooseSwatch(cmd, swatches)
	if err != nil || !ok {
		return err
	}
	return presenter.Copy(swatch)
}

// requestFromArgs validates the positional value or prompts for one.
func requestFromArgs(mode dispatch.Mode, args []string) (dispatch.Request, error) {
	if len(args) == 1 {
		return dispatch.Normalize(mode, args[0])
	}
	if !isTerminal() {
		return dispatch.Request{}, fmt.Errorf("missing %s value", mode)
	}
	req, err := tui.PromptValue(mode)
	if errors.Is(err, tui.ErrAborted) {
		return dispatch.Request{}, fmt.Errorf("%s lookup cancelled", mode)
	}
	return req, err
}

// fetch performs req, behind a spinner when running in a terminal.
func fetch(ctx context.Context, f dispatch.Fetcher, req dispatch.Request) (palette.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !isTerminal() {
		return dispatch.Fetch(ctx, f, req)
	}

	var resp palette.Response
	err := tui.WithSpinner(ctx, "Generating palette for "+req.String()+"...", func(ctx context.Context) error {
		var err error
		resp, err = dispatch.Fetch(ctx, f, req)
		return err
	})
	return resp, err
}

// chooseSwatch resolves --copy and --pick to a swatch. ok is false when
// nothing should be copied.
func chooseSwatch(cmd *cobra.Command, swatches []palette.Swatch) (s palette.Swatch, ok bool, err error) {
	if cmd.Flags().Changed("copy") {
		n, _ := cmd.Flags().GetInt("copy")
		if n < 1 || n > len(swatches) {
			return palette.Swatch{}, false, fmt.Errorf("--copy must be between 1 and %d, got %d", len(swatches), n)
		}
		return swatches[n-1], true, nil
	}

	pick, _ := cmd.Flags().GetBool("pick")
	if !pick {
		return palette.Swatch{}, false, nil
	}
	if !isTerminal() {
		return palette.Swatch{}, false, fmt.Errorf("--pick requires a terminal; use --copy <number>")
	}
	s, err = tui.SelectSwatch(swatches)
	if errors.Is(err, tui.ErrAborted) {
		return palette.Swatch{}, false, nil
	}
	return s, err == nil, err
}
