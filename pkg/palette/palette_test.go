package palette

import (
	"errors"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

func approxRGB(a, b RGB) bool {
	return approx(a.R, b.R) && approx(a.G, b.G) && approx(a.B, b.B)
}

func TestLookupBlackToWhite(t *testing.T) {
	p := Palette{
		{Value: 0, Color: Black},
		{Value: 1, Color: White},
	}

	tests := []struct {
		name  string
		value float64
		want  RGB
	}{
		{"midpoint", 0.5, RGB{0.5, 0.5, 0.5}},
		{"below first", -5, Black},
		{"above last", 5, White},
		{"first key", 0, Black},
		{"last key", 1, White},
		{"quarter", 0.25, RGB{0.25, 0.25, 0.25}},
		{"NaN clamps to first", math.NaN(), Black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(tt.value, p)
			if err != nil {
				t.Fatalf("Lookup(%v) error: %v", tt.value, err)
			}
			if !approxRGB(got, tt.want) {
				t.Errorf("Lookup(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestLookupArbitraryRange(t *testing.T) {
	// Ocean-style keys live below zero.
	p := Palette{
		{Value: -0.2, Color: Hex(0x000030)},
		{Value: -0.1, Color: Hex(0x000041)},
		{Value: -0.005, Color: Hex(0x35698C)},
		{Value: 0, Color: Hex(0x40E0D0)},
	}

	got := p.At(-0.15)
	want := Hex(0x000030).Lerp(Hex(0x000041), 0.5)
	if !approxRGB(got, want) {
		t.Errorf("At(-0.15) = %v, want %v", got, want)
	}
	if got := p.At(-1); got != Hex(0x000030) {
		t.Errorf("At(-1) = %v, want first color", got)
	}
	if got := p.At(0.3); got != Hex(0x40E0D0) {
		t.Errorf("At(0.3) = %v, want last color", got)
	}
}

func TestLookupSingleEntry(t *testing.T) {
	p := Palette{{Value: 3, Color: Red}}
	for _, v := range []float64{-100, 3, 100} {
		got, err := Lookup(v, p)
		if err != nil {
			t.Fatal(err)
		}
		if got != Red {
			t.Errorf("Lookup(%v) = %v, want red", v, got)
		}
	}
}

func TestLookupEmpty(t *testing.T) {
	if _, err := Lookup(0.5, nil); !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("Lookup on empty palette error = %v, want ErrEmptyPalette", err)
	}
	if got := Palette(nil).At(0.5); got != Black {
		t.Errorf("At on empty palette = %v, want black", got)
	}
}

func TestLookupDuplicateKeys(t *testing.T) {
	p := Palette{
		{Value: 0, Color: Black},
		{Value: 0.5, Color: Red},
		{Value: 0.5, Color: White},
		{Value: 1, Color: White},
	}
	got := p.At(0.5)
	if math.IsNaN(float64(got.R)) {
		t.Fatal("At on a zero-width segment returned NaN")
	}
	if !approxRGB(got, Red) {
		t.Errorf("At(0.5) = %v, want red from the bracketing pair", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Palette
		want error
	}{
		{"empty", Palette{}, ErrEmptyPalette},
		{"single", Palette{{Value: 1, Color: White}}, nil},
		{"sorted", Palette{{Value: 0, Color: Black}, {Value: 1, Color: White}}, nil},
		{"equal keys", Palette{{Value: 0, Color: Black}, {Value: 0, Color: White}}, nil},
		{"unsorted", Palette{{Value: 1, Color: White}, {Value: 0, Color: Black}}, ErrUnsortedPalette},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{"#000000", Black, false},
		{"#FFFFFF", White, false},
		{"ff0000", Red, false},
		{" #40e0d0 ", Hex(0x40E0D0), false},
		{"#FFF", RGB{}, true},
		{"#GG0000", RGB{}, true},
		{"", RGB{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHex) {
					t.Errorf("ParseHex(%q) error = %v, want ErrInvalidHex", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRGBString(t *testing.T) {
	if got := Hex(0xCCD0D2).String(); got != "#ccd0d2" {
		t.Errorf("String() = %q, want #ccd0d2", got)
	}
	if got := (RGB{-1, 2, 0.5}).String(); got != "#00ff80" {
		t.Errorf("String() out of range = %q, want #00ff80", got)
	}
}

func TestPaletteYAML(t *testing.T) {
	src := `
- value: -1
  color: "#05400A"
- value: 0
  color: "#527048"
- value: 1
  color: "#7CFC00"
`
	var p Palette
	if err := yaml.Unmarshal([]byte(src), &p); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if len(p) != 3 {
		t.Fatalf("got %d control points, want 3", len(p))
	}
	if p[0].Value != -1 || p[0].Color != Hex(0x05400A) {
		t.Errorf("first point = %+v", p[0])
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	out, err := yaml.Marshal(p)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	var back Palette
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-reading marshalled palette: %v", err)
	}
	for i := range p {
		if back[i] != p[i] {
			t.Errorf("point %d = %+v after YAML, want %+v", i, back[i], p[i])
		}
	}

	bad := "- value: 0\n  color: \"#12\"\n"
	if err := yaml.Unmarshal([]byte(bad), &p); err == nil {
		t.Error("expected error for malformed color")
	}
}
