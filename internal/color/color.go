// Package color converts between the two color representations swatch
// works with: RGB triples and canonical "#rrggbb" hex strings.
package color

import (
	"fmt"
	"strconv"
	"strings"

	"nathanbeddoewebdev/swatch/internal/domain"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color as three 8-bit channels. Channels are ints so that
// out-of-range values coming from user input or the wire can be detected
// instead of silently wrapping.
type RGB struct {
	R, G, B int
}

// Validate reports ErrInvalidChannelValue if any channel is outside [0, 255].
func (c RGB) Validate() error {
	for _, ch := range [...]struct {
		name  string
		value int
	}{{"red", c.R}, {"green", c.G}, {"blue", c.B}} {
		if ch.value < 0 || ch.value > 255 {
			return fmt.Errorf("%w: %s channel %d is outside 0-255", domain.ErrInvalidChannelValue, ch.name, ch.value)
		}
	}
	return nil
}

// RGBToHex returns the canonical lowercase, zero-padded hex form of the
// given channels.
func RGBToHex(r, g, b int) (string, error) {
	c := RGB{R: r, G: g, B: b}
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Hex returns "#rrggbb". Out-of-range channels are clamped; use RGBToHex
// when they should be rejected.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.R), clamp(c.G), clamp(c.B))
}

// HexToRGB parses "#rrggbb" (either case, surrounding whitespace ignored).
func HexToRGB(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, fmt.Errorf("%w: %q must be '#' followed by 6 hex digits", domain.ErrInvalidHexFormat, s)
	}
	for i := 1; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return RGB{}, fmt.Errorf("%w: %q contains non-hex character %q", domain.ErrInvalidHexFormat, s, s[i])
		}
	}

	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q: %v", domain.ErrInvalidHexFormat, s, err)
	}

	return RGB{
		R: int(v>>16) & 0xff,
		G: int(v>>8) & 0xff,
		B: int(v) & 0xff,
	}, nil
}

// ParseRGB parses three comma-separated integers such as "10, 20, 30".
func ParseRGB(s string) (RGB, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("%w: %q must have exactly 3 comma-separated values", domain.ErrInvalidRGBFormat, s)
	}

	var vals [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidRGBFormat, strings.TrimSpace(p))
		}
		vals[i] = n
	}

	c := RGB{R: vals[0], G: vals[1], B: vals[2]}
	if err := c.Validate(); err != nil {
		return RGB{}, err
	}
	return c, nil
}

// String returns "r, g, b".
func (c RGB) String() string {
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

// Param returns the wire form "r,g,b" expected by the palette service.
func (c RGB) Param() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// CSS returns "rgb(r, g, b)".
func (c RGB) CSS() string {
	return "rgb(" + c.String() + ")"
}

// Contrast returns black or white, whichever is more legible on c.
func (c RGB) Contrast() RGB {
	l, _, _ := c.colorful().Lab()
	if l > 0.6 {
		return RGB{}
	}
	return RGB{R: 255, G: 255, B: 255}
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(clamp(c.R)) / 255,
		G: float64(clamp(c.G)) / 255,
		B: float64(clamp(c.B)) / 255,
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
