// Package clipboard writes swatch text to the user's clipboard.
//
// The system clipboard is used when one is available. Otherwise (for
// example inside an SSH session with no X server) the text is sent to the
// terminal as an OSC 52 sequence, which most modern terminals forward to
// the local clipboard.
package clipboard

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// System is the default clipboard.
type System struct {
	// Terminal receives the OSC 52 fallback sequence. Defaults to os.Stderr.
	Terminal io.Writer

	// DisableOSC52 turns the fallback off, so a missing system clipboard
	// is reported as an error.
	DisableOSC52 bool
}

// NewSystem returns a System clipboard writing its fallback to stderr.
func NewSystem() *System {
	return &System{Terminal: os.Stderr}
}

// WriteText copies text to the clipboard.
func (s *System) WriteText(text string) error {
	if !clipboard.Unsupported {
		err := clipboard.WriteAll(text)
		if err == nil {
			return nil
		}
		if s.DisableOSC52 {
			return err
		}
	} else if s.DisableOSC52 {
		return fmt.Errorf("no system clipboard available")
	}

	return s.writeOSC52(text)
}

func (s *System) writeOSC52(text string) error {
	w := s.Terminal
	if w == nil {
		w = os.Stderr
	}

	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	} else if os.Getenv("STY") != "" {
		seq = seq.Screen()
	}

	if _, err := seq.WriteTo(w); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}
