package components

import (
	"nathanbeddoewebdev/swatch/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// StatusBar renders a status message line between the content and footer.
// Messages wider than the bar are truncated.
func StatusBar(width int, message string, isError bool) string {
	if message == "" {
		return ""
	}

	style := styles.MutedText
	if isError {
		style = styles.ErrorText
	}

	if limit := width - 4; limit > 1 {
		message = ansi.Truncate(message, limit, "…")
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Render(style.Render(message))
}
