package components

import (
	"nathanbeddoewebdev/swatch/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// KeyBinding represents a single key binding for the footer.
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer renders the key binding help bar at the bottom of the screen.
// Bindings that do not fit in width are dropped from the end.
func Footer(width int, bindings []KeyBinding) string {
	if width < 10 || len(bindings) == 0 {
		return ""
	}

	sep := styles.KeySepStyle.Render("  ")
	sepW := lipgloss.Width(sep)
	avail := width - 4 // padding

	content := ""
	for i, b := range bindings {
		part := styles.FormatKeyBinding(b.Key, b.Desc)
		if i > 0 {
			part = sep + part
		}
		if lipgloss.Width(content)+lipgloss.Width(part) > avail {
			if i > 0 && lipgloss.Width(content)+sepW+1 <= avail {
				content += sep + styles.KeyDescStyle.Render("…")
			}
			break
		}
		content += part
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderTop(true).
		BorderForeground(styles.DimGray).
		Render(content)
}
