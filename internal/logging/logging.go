// Package logging builds the slog loggers used by swatch.
//
// Commands log to stderr. The TUI owns the terminal, so it logs to the
// file named by SWATCH_LOG, or nowhere.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// EnvLogFile names the environment variable holding the TUI log path.
const EnvLogFile = "SWATCH_LOG"

// New returns a text logger writing to w. Warnings and errors are always
// logged; verbose adds debug output.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ForTUI returns a debug logger writing to $SWATCH_LOG, plus a close
// function. Without SWATCH_LOG it returns Discard.
func ForTUI() (*slog.Logger, func() error, error) {
	path := os.Getenv(EnvLogFile)
	if path == "" {
		return Discard(), func() error { return nil }, nil
	}

	f, err := tea.LogToFile(path, "swatch")
	if err != nil {
		return nil, nil, fmt.Errorf("logging: failed to open %s: %w", path, err)
	}
	return New(f, true), f.Close, nil
}
