// Package palette maps scalar values to colors through piecewise-linear
// gradients defined by ordered control points.
package palette

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Palette errors.
var (
	ErrEmptyPalette    = errors.New("palette has no control points")
	ErrUnsortedPalette = errors.New("palette control points are not sorted by value")
	ErrInvalidHex      = errors.New("invalid hex color: expected #RRGGBB")
)

// RGB is a color with float components in [0, 1].
type RGB struct {
	R, G, B float32
}

// Predefined colors.
var (
	Black = RGB{0, 0, 0}
	White = RGB{1, 1, 1}
	Red   = RGB{1, 0, 0}
)

// Hex creates a color from a packed 0xRRGGBB value.
func Hex(v uint32) RGB {
	return RGB{
		R: float32((v>>16)&0xFF) / 255.0,
		G: float32((v>>8)&0xFF) / 255.0,
		B: float32(v&0xFF) / 255.0,
	}
}

// ParseHex parses "#RRGGBB" (the leading '#' is optional).
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return Hex(uint32(v)), nil
}

// String returns the color as "#rrggbb".
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

// MarshalText encodes the color as "#rrggbb".
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a "#rrggbb" color.
func (c *RGB) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Lerp returns c + t*(other-c) per component.
func (c RGB) Lerp(other RGB, t float32) RGB {
	return RGB{
		R: c.R + t*(other.R-c.R),
		G: c.G + t*(other.G-c.G),
		B: c.B + t*(other.B-c.B),
	}
}

// Scale multiplies every component by s.
func (c RGB) Scale(s float32) RGB {
	return RGB{c.R * s, c.G * s, c.B * s}
}

// Add returns the component-wise sum.
func (c RGB) Add(other RGB) RGB {
	return RGB{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Array returns the components as a [3]float32.
func (c RGB) Array() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}

// ControlPoint pins a color to a scalar value.
type ControlPoint struct {
	Value float64 `yaml:"value"`
	Color RGB     `yaml:"color"`
}

// Palette is a gradient of control points sorted ascending by Value.
type Palette []ControlPoint

// Validate checks that the palette is usable for lookups.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return ErrEmptyPalette
	}
	for i := 1; i < len(p); i++ {
		if p[i].Value < p[i-1].Value {
			return fmt.Errorf("%w: %v follows %v", ErrUnsortedPalette, p[i].Value, p[i-1].Value)
		}
	}
	return nil
}

// Lookup returns the color at value, or ErrEmptyPalette.
func Lookup(value float64, p Palette) (RGB, error) {
	if len(p) == 0 {
		return RGB{}, ErrEmptyPalette
	}
	return p.At(value), nil
}

// At returns the interpolated color at value. Values outside the key range
// clamp to the first or last color; NaN clamps to the first. An empty
// palette yields black.
func (p Palette) At(value float64) RGB {
	if len(p) == 0 {
		return Black
	}
	if len(p) == 1 || value <= p[0].Value || math.IsNaN(value) {
		return p[0].Color
	}

	last := len(p) - 1
	if value >= p[last].Value {
		return p[last].Color
	}

	for i := 0; i < last; i++ {
		lo, hi := p[i], p[i+1]
		if value < lo.Value || value > hi.Value {
			continue
		}
		span := hi.Value - lo.Value
		if span <= 0 {
			return hi.Color
		}
		t := (value - lo.Value) / span
		return lo.Color.Lerp(hi.Color, float32(t))
	}
	return p[last].Color
}
