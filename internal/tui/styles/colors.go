// Package styles provides the centralized color palette and style definitions
// for the swatch TUI. All chrome colors live here; swatch backgrounds come
// from the palette service at runtime.
package styles

import "github.com/charmbracelet/lipgloss"

// --- Chrome palette ---

var (
	// Core text
	White   = lipgloss.Color("#E2E2E2")
	Gray    = lipgloss.Color("#888888")
	Muted   = lipgloss.Color("#555555")
	DimGray = lipgloss.Color("#444444")

	// Accent
	Blue     = lipgloss.Color("#5FAFFF")
	DarkBlue = lipgloss.Color("#1A2F40")

	// Status
	Green  = lipgloss.Color("#5FD787")
	Yellow = lipgloss.Color("#FFD787")
	Red    = lipgloss.Color("#FF8787")
)
