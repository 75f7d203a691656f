package lookup

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"nathanbeddoewebdev/swatch/internal/dispatch"
	"nathanbeddoewebdev/swatch/internal/palette"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// textDisplay prints swatches as a numbered table, one row per color.
// The kind is only printed on the first row of each group. The color chip
// trails the row: tabwriter counts its escape bytes as width, so it must
// not sit in front of an aligned column.
type textDisplay struct {
	w io.Writer
}

func (d textDisplay) Show(swatches []palette.Swatch) {
	tw := tabwriter.NewWriter(d.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tKIND\tHEX\tRGB")

	var last palette.Kind
	for i, s := range swatches {
		kind := ""
		if s.Kind != last {
			kind = string(s.Kind)
			last = s.Kind
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n", i+1, kind, s.Hex, s.RGB, chip(s))
	}

	tw.Flush()
}

// chip is a two-cell block of the swatch color. Without a color-capable
// terminal it renders as blank space.
func chip(s palette.Swatch) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(s.Hex)).Render("  ")
}

type paletteJSON struct {
	Mode    dispatch.Mode    `json:"mode"`
	Value   string           `json:"value"`
	Palette palette.Response `json:"palette"`
}

// printPaletteJSON encodes a palette as indented JSON to the command's stdout.
func printPaletteJSON(cmd *cobra.Command, req dispatch.Request, resp palette.Response) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(paletteJSON{Mode: req.Mode, Value: req.Value, Palette: resp})
}
