package palette

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"nathanbeddoewebdev/swatch/internal/color"
	"nathanbeddoewebdev/swatch/internal/domain"
)

// Kind names one palette category returned by the palette service.
type Kind string

const (
	Original      Kind = "original"
	Complementary Kind = "complementary"
	Analogous     Kind = "analogous"
	Triadic       Kind = "triadic"
	Tetradic      Kind = "tetradic"
	Monochromatic Kind = "monochromatic"
)

// Kinds is the fixed render order.
var Kinds = []Kind{Original, Complementary, Analogous, Triadic, Tetradic, Monochromatic}

// Response is a decoded palette-service payload. Every kind maps to a
// sequence of colors, even when the service sent a single bare triple.
type Response struct {
	Colors map[Kind][]color.RGB

	// Error carries the service's "error" field, if any.
	Error string
}

// Len returns the total number of colors across all known kinds.
func (r Response) Len() int {
	n := 0
	for _, k := range Kinds {
		n += len(r.Colors[k])
	}
	return n
}

// UnmarshalJSON accepts, per kind, either a bare triple [r,g,b] or a list
// of triples [[r,g,b], ...]. The first element's JSON token decides which.
// Anything else fails with ErrMalformedPalette.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedPalette, err)
	}

	out := Response{Colors: make(map[Kind][]color.RGB, len(Kinds))}

	if msg, ok := raw["error"]; ok {
		if err := json.Unmarshal(msg, &out.Error); err != nil {
			out.Error = string(msg)
		}
	}

	for _, kind := range Kinds {
		value, ok := raw[string(kind)]
		if !ok {
			continue
		}
		colors, err := decodeKind(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrMalformedPalette, kind, err)
		}
		out.Colors[kind] = colors
	}

	*r = out
	return nil
}

// MarshalJSON always emits the list-of-triples shape.
func (r Response) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Colors)+1)
	for kind, colors := range r.Colors {
		triples := make([][3]int, len(colors))
		for i, c := range colors {
			triples[i] = [3]int{c.R, c.G, c.B}
		}
		out[string(kind)] = triples
	}
	if r.Error != "" {
		out["error"] = r.Error
	}
	return json.Marshal(out)
}

func decodeKind(value json.RawMessage) ([]color.RGB, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, fmt.Errorf("expected an array, got %s", abbreviate(value))
	}
	if len(items) == 0 {
		return nil, nil
	}

	if !isArray(items[0]) {
		c, err := decodeTriple(items)
		if err != nil {
			return nil, err
		}
		return []color.RGB{c}, nil
	}

	colors := make([]color.RGB, 0, len(items))
	for i, item := range items {
		var channels []json.RawMessage
		if err := json.Unmarshal(item, &channels); err != nil {
			return nil, fmt.Errorf("item %d: expected a triple, got %s", i, abbreviate(item))
		}
		c, err := decodeTriple(channels)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		colors = append(colors, c)
	}
	return colors, nil
}

func decodeTriple(channels []json.RawMessage) (color.RGB, error) {
	if len(channels) != 3 {
		return color.RGB{}, fmt.Errorf("expected 3 channels, got %d", len(channels))
	}

	var vals [3]int
	for i, ch := range channels {
		if isArray(ch) {
			return color.RGB{}, fmt.Errorf("channel %d is a nested array", i)
		}
		var f float64
		if err := json.Unmarshal(ch, &f); err != nil {
			return color.RGB{}, fmt.Errorf("channel %d: expected a number, got %s", i, abbreviate(ch))
		}
		if f != math.Trunc(f) {
			return color.RGB{}, fmt.Errorf("channel %d: %v is not an integer", i, f)
		}
		vals[i] = int(f)
	}

	c := color.RGB{R: vals[0], G: vals[1], B: vals[2]}
	if err := c.Validate(); err != nil {
		return color.RGB{}, err
	}
	return c, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func abbreviate(raw json.RawMessage) string {
	const maxLen = 32
	s := string(bytes.TrimSpace(raw))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
