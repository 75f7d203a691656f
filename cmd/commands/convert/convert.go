// Package convert implements the offline hex <-> rgb conversion command.
package convert

import (
	"fmt"

	"nathanbeddoewebdev/swatch/internal/color"
	"nathanbeddoewebdev/swatch/internal/dispatch"

	"github.com/spf13/cobra"
)

// NewCommand returns the "convert" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <#rrggbb | r,g,b>",
		Short: "Convert a color between hex and RGB",
		Long: `Convert a hex color to RGB, or an RGB color to hex. Conversion happens
locally; the palette service is not contacted.

Examples:
  swatch convert '#ff8800'      # 255, 136, 0
  swatch convert 255,136,0      # #ff8800
  swatch convert '#ff8800' --css`,
		Args:         cobra.ExactArgs(1),
		RunE:         runConvert,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("css", false, `Print RGB results as CSS "rgb(r, g, b)"`)

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	css, _ := cmd.Flags().GetBool("css")
	out := cmd.OutOrStdout()

	switch dispatch.Detect(args[0]) {
	case dispatch.ModeHex:
		rgb, err := color.HexToRGB(args[0])
		if err != nil {
			return err
		}
		if css {
			fmt.Fprintln(out, rgb.CSS())
		} else {
			fmt.Fprintln(out, rgb.String())
		}
	case dispatch.ModeRGB:
		rgb, err := color.ParseRGB(args[0])
		if err != nil {
			return err
		}
		hex, err := color.RGBToHex(rgb.R, rgb.G, rgb.B)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, hex)
	default:
		return fmt.Errorf("cannot convert %q: expected #rrggbb or r,g,b", args[0])
	}
	return nil
}
