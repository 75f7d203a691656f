// Package palette turns palette-service responses into swatches and
// handles copying a swatch to the clipboard.
//
// Rendering is pure: Render builds a fresh []Swatch from a Response and
// never touches a display. Pushing swatches to a screen is the job of a
// Display, so the TUI and the plain-text printer can share the logic.
package palette

import (
	"fmt"
	"unicode/utf8"

	"nathanbeddoewebdev/swatch/internal/color"
	"nathanbeddoewebdev/swatch/internal/domain"
)

// Swatch describes one rendered color.
type Swatch struct {
	Kind  Kind
	Index int // position within Kind
	RGB   color.RGB
	Hex   string
}

// Label is the visible text on the swatch.
func (s Swatch) Label() string {
	return s.Hex
}

// CopyText is what lands on the clipboard: "r, g, b #rrggbb".
func (s Swatch) CopyText() string {
	return s.RGB.String() + " " + s.Hex
}

// Render returns one swatch per color, in Kinds order and then in the
// service's order within each kind. Colors are neither deduplicated nor
// sorted.
func Render(resp Response) []Swatch {
	swatches := make([]Swatch, 0, resp.Len())
	for _, kind := range Kinds {
		for i, c := range resp.Colors[kind] {
			swatches = append(swatches, Swatch{
				Kind:  kind,
				Index: i,
				RGB:   c,
				Hex:   c.Hex(),
			})
		}
	}
	return swatches
}

// Display receives a complete replacement set of swatches.
type Display interface {
	Show(swatches []Swatch)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func([]Swatch)

func (f DisplayFunc) Show(swatches []Swatch) { f(swatches) }

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// Ack is the outcome of a copy, shown to the user.
type Ack struct {
	Swatch Swatch
	Text   string
	Err    error
}

// OK reports whether the copy succeeded.
func (a Ack) OK() bool { return a.Err == nil }

// Message is the user-facing acknowledgment text.
func (a Ack) Message() string {
	if a.Err != nil {
		return "Failed to copy to clipboard. Please try again."
	}
	return "Copied to clipboard: " + a.Text
}

// Notifier delivers copy acknowledgments to the user.
type Notifier interface {
	Notify(ack Ack)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Ack)

func (f NotifierFunc) Notify(ack Ack) { f(ack) }

// Presenter renders responses and copies swatches.
type Presenter struct {
	Clipboard Clipboard
	Notifier  Notifier
}

// NewPresenter returns a Presenter writing to cb and acknowledging via n.
func NewPresenter(cb Clipboard, n Notifier) *Presenter {
	return &Presenter{Clipboard: cb, Notifier: n}
}

// Present renders resp and hands the swatches to d. It returns the
// swatches that were shown.
func (p *Presenter) Present(resp Response, d Display) []Swatch {
	swatches := Render(resp)
	d.Show(swatches)
	return swatches
}

// Copy writes the swatch's copy text to the clipboard exactly once and
// sends exactly one acknowledgment. The returned error wraps
// ErrClipboardWrite on failure.
func (p *Presenter) Copy(s Swatch) error {
	ack := Ack{Swatch: s, Text: s.CopyText()}
	if err := p.Clipboard.WriteText(ack.Text); err != nil {
		ack.Err = fmt.Errorf("%w: %w", domain.ErrClipboardWrite, err)
	}
	if p.Notifier != nil {
		p.Notifier.Notify(ack)
	}
	return ack.Err
}

// MaxNameLength is the longest color name the prediction model accepts.
const MaxNameLength = 25

// CountLabel is the "<n>/25" counter shown beside a name input, counting
// runes rather than bytes.
func CountLabel(input string) string {
	return fmt.Sprintf("%d/%d", utf8.RuneCountInString(input), MaxNameLength)
}
