package domain

import "errors"

// Sentinel errors for classifying failures across the codec, the palette
// service client and the clipboard. Callers wrap these so the CLI and the
// TUI can report error categories uniformly.
//
//	return RGB{}, fmt.Errorf("%w: %q", domain.ErrInvalidHexFormat, s)
var (
	// ErrInvalidHexFormat indicates a hex color that is not "#" followed
	// by exactly six hex digits.
	ErrInvalidHexFormat = errors.New("invalid hex color")

	// ErrInvalidChannelValue indicates an RGB channel outside [0, 255].
	ErrInvalidChannelValue = errors.New("invalid channel value")

	// ErrInvalidRGBFormat indicates an RGB string that is not three
	// comma-separated integers.
	ErrInvalidRGBFormat = errors.New("invalid rgb value")

	// ErrInvalidName indicates an empty or over-long color name.
	ErrInvalidName = errors.New("invalid color name")

	// ErrNetwork indicates the palette service could not be reached or
	// the request timed out.
	ErrNetwork = errors.New("palette service unreachable")

	// ErrService indicates the palette service answered with an error.
	ErrService = errors.New("palette service error")

	// ErrMalformedPalette indicates a response body that is not a
	// palette in either of the accepted shapes.
	ErrMalformedPalette = errors.New("malformed palette response")

	// ErrClipboardWrite indicates the clipboard rejected a copy.
	ErrClipboardWrite = errors.New("clipboard write failed")
)
