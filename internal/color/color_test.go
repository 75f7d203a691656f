package color

import (
	"errors"
	"testing"

	"nathanbeddoewebdev/swatch/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func TestRGBToHex(t *testing.T) {
	tests := []struct {
		r, g, b int
		want    string
	}{
		{0, 0, 0, "#000000"},
		{255, 255, 255, "#ffffff"},
		{5, 10, 250, "#050afa"},
		{255, 0, 0, "#ff0000"},
		{171, 205, 239, "#abcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := RGBToHex(tt.r, tt.g, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("RGBToHex(%d, %d, %d) = %q, want %q", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestRGBToHex_OutOfRange(t *testing.T) {
	for _, c := range []RGB{{-1, 0, 0}, {0, 256, 0}, {0, 0, 1000}} {
		_, err := RGBToHex(c.R, c.G, c.B)
		if !errors.Is(err, domain.ErrInvalidChannelValue) {
			t.Errorf("RGBToHex(%v): expected ErrInvalidChannelValue, got %v", c, err)
		}
	}
}

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"#ff0000", RGB{255, 0, 0}},
		{"#FF0000", RGB{255, 0, 0}},
		{"#050afa", RGB{5, 10, 250}},
		{"  #00ff00 ", RGB{0, 255, 0}},
		{"#000000", RGB{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := HexToRGB(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("HexToRGB(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestHexToRGB_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"#",
		"ff0000",
		"#ff000",
		"#ff00000",
		"#gg0000",
		"#-f0000",
		"#+f0000",
		"0xff0000",
	}
	for _, in := range invalid {
		t.Run(in, func(t *testing.T) {
			_, err := HexToRGB(in)
			if !errors.Is(err, domain.ErrInvalidHexFormat) {
				t.Errorf("HexToRGB(%q): expected ErrInvalidHexFormat, got %v", in, err)
			}
		})
	}
}

func TestRoundTrip_AllChannels(t *testing.T) {
	for v := 0; v <= 255; v++ {
		for _, c := range []RGB{{v, 0, 0}, {0, v, 0}, {0, 0, v}, {v, 255 - v, v / 2}} {
			hex, err := RGBToHex(c.R, c.G, c.B)
			if err != nil {
				t.Fatalf("RGBToHex(%v): %v", c, err)
			}
			got, err := HexToRGB(hex)
			if err != nil {
				t.Fatalf("HexToRGB(%q): %v", hex, err)
			}
			if got != c {
				t.Fatalf("round trip %v -> %q -> %v", c, hex, got)
			}
		}
	}
}

func TestParseRGB(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
	}{
		{"10,20,30", RGB{10, 20, 30}},
		{"10, 20, 30", RGB{10, 20, 30}},
		{" 0 ,255, 7 ", RGB{0, 255, 7}},
	}
	for _, tt := range tests {
		got, err := ParseRGB(tt.in)
		if err != nil {
			t.Fatalf("ParseRGB(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseRGB(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRGB_Invalid(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", domain.ErrInvalidRGBFormat},
		{"1,2", domain.ErrInvalidRGBFormat},
		{"1,2,3,4", domain.ErrInvalidRGBFormat},
		{"a,b,c", domain.ErrInvalidRGBFormat},
		{"1.5,2,3", domain.ErrInvalidRGBFormat},
		{"256,0,0", domain.ErrInvalidChannelValue},
		{"0,-1,0", domain.ErrInvalidChannelValue},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseRGB(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseRGB(%q): expected %v, got %v", tt.in, tt.want, err)
			}
		})
	}
}

func TestFormatting(t *testing.T) {
	c := RGB{5, 10, 250}
	if got := c.String(); got != "5, 10, 250" {
		t.Errorf("String() = %q", got)
	}
	if got := c.Param(); got != "5,10,250" {
		t.Errorf("Param() = %q", got)
	}
	if got := c.CSS(); got != "rgb(5, 10, 250)" {
		t.Errorf("CSS() = %q", got)
	}
}

func TestHex_ClampsOutOfRange(t *testing.T) {
	if got := (RGB{-5, 300, 16}).Hex(); got != "#00ff10" {
		t.Errorf("Hex() = %q, want %q", got, "#00ff10")
	}
}

func TestContrast(t *testing.T) {
	black := RGB{}
	white := RGB{255, 255, 255}

	tests := []struct {
		name string
		in   RGB
		want RGB
	}{
		{"white background", white, black},
		{"black background", black, white},
		{"yellow background", RGB{255, 255, 0}, black},
		{"blue background", RGB{0, 0, 255}, white},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Contrast(); got != tt.want {
				t.Errorf("Contrast(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
