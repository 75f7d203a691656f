package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("hidden")
	logger.Warn("shown", "attempt", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug output should be filtered, got: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "attempt=2") {
		t.Errorf("expected warning with attrs, got: %s", out)
	}
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug output, got: %s", buf.String())
	}
}

func TestForTUI_NoEnv(t *testing.T) {
	t.Setenv(EnvLogFile, "")

	logger, closeFn, err := ForTUI()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Error("dropped")
	if err := closeFn(); err != nil {
		t.Errorf("close failed: %v", err)
	}
}

func TestForTUI_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swatch.log")
	t.Setenv(EnvLogFile, path)

	logger, closeFn, err := ForTUI()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Debug("palette request", "mode", "hex")
	if err := closeFn(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "mode=hex") {
		t.Errorf("expected log line, got: %s", data)
	}
}

func TestDiscard_DropsEverything(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled at any level")
	}
	// Must not panic when derived.
	logger.With("k", "v").WithGroup("g").Error("dropped")
}
