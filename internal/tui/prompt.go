package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"nathanbeddoewebdev/swatch/internal/dispatch"
	"nathanbeddoewebdev/swatch/internal/palette"
	"nathanbeddoewebdev/swatch/internal/service"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/image/colornames"
)

// ErrAborted is returned when a user cancels an interactive prompt.
var ErrAborted = errors.New("aborted by user")

func accessibleMode() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

// PromptValue asks for a single value of the given mode and returns it in
// canonical form.
func PromptValue(mode dispatch.Mode) (dispatch.Request, error) {
	var value string

	input := huh.NewInput().
		Value(&value).
		Validate(promptValidator(mode))

	switch mode {
	case dispatch.ModeName:
		input = input.
			Title("Color name").
			Description(fmt.Sprintf("Up to %d characters, e.g. ocean", service.MaxNameLength)).
			CharLimit(service.MaxNameLength).
			Suggestions(colornames.Names)
	case dispatch.ModeHex:
		input = input.
			Title("Hex color").
			Placeholder("#rrggbb").
			CharLimit(7)
	case dispatch.ModeRGB:
		input = input.
			Title("RGB color").
			Placeholder("r, g, b")
	default:
		return dispatch.Request{}, fmt.Errorf("unknown input mode %q", mode)
	}

	if err := runForm(accessibleMode(), huh.NewGroup(input)); err != nil {
		return dispatch.Request{}, err
	}
	return dispatch.Normalize(mode, value)
}

func promptValidator(mode dispatch.Mode) func(string) error {
	return func(s string) error {
		_, err := dispatch.Normalize(mode, s)
		return err
	}
}

// SelectSwatch lets the user pick one swatch, e.g. to copy it.
func SelectSwatch(swatches []palette.Swatch) (palette.Swatch, error) {
	if len(swatches) == 0 {
		return palette.Swatch{}, fmt.Errorf("no colors to choose from")
	}

	idx := 0
	sel := huh.NewSelect[int]().
		Title("Copy which color?").
		Options(swatchOptions(swatches)...).
		Value(&idx)

	if err := runForm(accessibleMode(), huh.NewGroup(sel)); err != nil {
		return palette.Swatch{}, err
	}
	return swatches[idx], nil
}

func swatchOptions(swatches []palette.Swatch) []huh.Option[int] {
	opts := make([]huh.Option[int], len(swatches))
	for i, s := range swatches {
		opts[i] = huh.NewOption(fmt.Sprintf("%-14s %s  (%s)", s.Kind, s.Hex, s.RGB), i)
	}
	return opts
}

// WithSpinner runs action behind a spinner on stderr. Cancelling the
// spinner cancels action's context.
func WithSpinner(ctx context.Context, title string, action func(context.Context) error) error {
	err := spinner.New().
		Title(title).
		Context(ctx).
		Accessible(accessibleMode()).
		Output(os.Stderr).
		ActionWithErr(action).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}
