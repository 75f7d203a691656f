package styles

import (
	"nathanbeddoewebdev/swatch/internal/color"

	"github.com/charmbracelet/lipgloss"
)

// --- Typography ---

var (
	// Title is the main header text style.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Subtitle is used for secondary headings.
	Subtitle = lipgloss.NewStyle().
			Foreground(Gray)

	// Label is used for field names.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// Value is used for field values.
	Value = lipgloss.NewStyle().
		Foreground(White)

	// MutedText is for help text, hints, and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// AccentText is for highlighted interactive elements.
	AccentText = lipgloss.NewStyle().
			Foreground(Blue)

	// ErrorText is for error messages.
	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// SuccessText is for success messages.
	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// WarningText is for warning messages.
	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// --- Layout components ---

var (
	// Border is the default subtle border style.
	Border = lipgloss.RoundedBorder()

	// Card is a rounded-border panel for content sections.
	Card = lipgloss.NewStyle().
		Border(Border).
		BorderForeground(DimGray).
		Padding(1, 2)

	// CardActive is a card with an accent border for focused elements.
	CardActive = lipgloss.NewStyle().
			Border(Border).
			BorderForeground(Blue).
			Padding(1, 2)

	// Modal is the border used for blocking acknowledgments.
	Modal = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Blue).
		Padding(1, 3)

	// ModalError is Modal for failures.
	ModalError = Modal.BorderForeground(Red)
)

// --- Key binding hint styles ---

var (
	// KeyStyle is used for key labels in the footer (e.g. "q").
	KeyStyle = lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true)

	// KeyDescStyle is used for key descriptions in the footer (e.g. "quit").
	KeyDescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// KeySepStyle is used for separators between key bindings.
	KeySepStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// FormatKeyBinding formats a single key binding for the footer.
func FormatKeyBinding(key, desc string) string {
	return KeyStyle.Render(key) + " " + KeyDescStyle.Render(desc)
}

// --- Input field styles ---

var (
	// InputFocused is the style for focused input fields.
	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Padding(0, 1)

	// InputBlurred is the style for unfocused input fields.
	InputBlurred = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)
)

// --- Swatches ---

// SwatchCell paints a cell in c with a legible label color. Selected cells
// get a bright border, others a border in the swatch's own color so every
// cell has the same outer size.
func SwatchCell(c color.RGB, width int, selected bool) lipgloss.Style {
	bg := lipgloss.Color(c.Hex())
	fg := lipgloss.Color(c.Contrast().Hex())

	border := bg
	if selected {
		border = White
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(1).
		Align(lipgloss.Center).
		Background(bg).
		Foreground(fg).
		Bold(selected).
		Border(lipgloss.NormalBorder()).
		BorderForeground(border)
}

// KindHeading styles the palette kind name above its row of swatches.
var KindHeading = lipgloss.NewStyle().
	Foreground(Gray).
	Bold(true).
	Width(16)
