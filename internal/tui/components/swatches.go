package components

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/swatch/internal/palette"
	"nathanbeddoewebdev/swatch/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SwatchCellWidth is the inner width of one swatch cell.
const SwatchCellWidth = 9

// SwatchZoneID names the mouse zone of the i-th swatch.
func SwatchZoneID(i int) string {
	return fmt.Sprintf("swatch-%d", i)
}

// SwatchGrid renders swatches one row per palette kind. mark wraps each
// cell so the caller can register it as a clickable zone; pass nil to
// skip marking.
//
//	original        ┌─────────┐
//	                │ #0a141e │
//	                └─────────┘
func SwatchGrid(swatches []palette.Swatch, selected int, mark func(id, s string) string) string {
	if len(swatches) == 0 {
		return ""
	}

	var rows []string
	start := 0
	for start < len(swatches) {
		kind := swatches[start].Kind
		end := start
		for end < len(swatches) && swatches[end].Kind == kind {
			end++
		}

		cells := make([]string, 0, end-start+1)
		cells = append(cells, styles.KindHeading.Render("\n"+string(kind)))
		for i := start; i < end; i++ {
			s := swatches[i]
			label := ansi.Truncate(s.Label(), SwatchCellWidth, "")
			cell := styles.SwatchCell(s.RGB, SwatchCellWidth, i == selected).Render(label)
			if mark != nil {
				cell = mark(SwatchZoneID(i), cell)
			}
			cells = append(cells, cell)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		start = end
	}

	return strings.Join(rows, "\n")
}

// SwatchDetail describes the selected swatch under the grid.
func SwatchDetail(s palette.Swatch) string {
	return styles.Label.Render(string(s.Kind)) +
		styles.MutedText.Render(fmt.Sprintf(" #%d  ", s.Index+1)) +
		styles.Value.Render(s.RGB.CSS()) +
		styles.MutedText.Render("  ") +
		styles.AccentText.Render(s.Hex)
}

// CharCounter renders the character count shown beside the name input,
// highlighted once the input is full.
func CharCounter(label string, full bool) string {
	if full {
		return styles.WarningText.Render(label)
	}
	return styles.MutedText.Render(label)
}

// Modal renders a centered acknowledgment box that must be dismissed.
func Modal(width, height int, title, body string, isError bool) string {
	box := styles.Modal
	titleStyle := styles.SuccessText
	if isError {
		box = styles.ModalError
		titleStyle = styles.ErrorText
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(title),
		"",
		styles.Value.Render(body),
		"",
		styles.MutedText.Render("press any key to continue"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box.Render(content))
}
