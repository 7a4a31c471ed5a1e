// Package terrain derives height, climate, biome and color for points on a
// unit sphere from layered fractal noise.
package terrain

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/ChenRaptor/procedural-universe/pkg/noise"
	"github.com/ChenRaptor/procedural-universe/pkg/palette"
)

// Parameter errors.
var (
	ErrInvalidParams  = errors.New("invalid terrain parameters")
	ErrMissingPalette = errors.New("missing biome palette")
)

// Params holds everything the deformer reads. It is immutable once passed
// to NewDeformer.
type Params struct {
	Radius      float64  `yaml:"radius"`
	SeaLevel    float64  `yaml:"sea_level"`
	Amplitude   float64  `yaml:"amplitude"`
	ShowEquator bool     `yaml:"show_equator"`
	Layers      Layers   `yaml:"layers"`
	Palettes    Palettes `yaml:"palettes"`
}

// Layers groups the fractal noise signals.
type Layers struct {
	Continent   noise.Layer `yaml:"continent"`
	BigMountain noise.Layer `yaml:"big_mountain"`
	Mountain    noise.Layer `yaml:"mountain"`
	Detail      noise.Layer `yaml:"detail"` // indexes the biome palette
	Temperature Climate     `yaml:"temperature"`
	Humidity    Climate     `yaml:"humidity"`
}

// Climate is a pair of noise layers perturbing a climate signal at two scales.
type Climate struct {
	Coarse noise.Layer `yaml:"coarse"`
	Fine   noise.Layer `yaml:"fine"`
}

// Palettes holds the color gradients and the relief blend constants.
type Palettes struct {
	Biomes map[Biome]palette.Palette `yaml:"biomes"`
	Relief palette.Palette           `yaml:"relief"`

	// FlatBiomeWeight is the biome share of the color where relief is flat.
	FlatBiomeWeight float64 `yaml:"flat_biome_weight"`
	// ReliefSharpness scales the relief factor before tanh.
	ReliefSharpness float64 `yaml:"relief_sharpness"`
}

// DefaultParams returns the reference Earth-like planet.
func DefaultParams() Params {
	return Params{
		Radius:    1.0,
		SeaLevel:  0.998,
		Amplitude: 0.05,
		Layers: Layers{
			Continent:   noise.Layer{Octaves: 3, Persistence: 0.5, Scale: 0.8},
			BigMountain: noise.Layer{Octaves: 8, Persistence: 0.7, Scale: 4},
			Mountain:    noise.Layer{Octaves: 8, Persistence: 0.9, Scale: 2},
			Detail:      noise.Layer{Octaves: 3, Persistence: 0.6, Scale: 5},
			Temperature: Climate{
				Coarse: noise.Layer{Octaves: 4, Persistence: 0.9, Scale: 2},
				Fine:   noise.Layer{Octaves: 4, Persistence: 0.9, Scale: 20},
			},
			Humidity: Climate{
				Coarse: noise.Layer{Octaves: 4, Persistence: 0.5, Scale: 2},
				Fine:   noise.Layer{Octaves: 4, Persistence: 0.6, Scale: 20},
			},
		},
		Palettes: DefaultPalettes(),
	}
}

// DefaultPalettes returns the reference biome and relief gradients.
func DefaultPalettes() Palettes {
	return Palettes{
		Biomes: map[Biome]palette.Palette{
			Ocean: {
				{Value: -0.2, Color: palette.Hex(0x000030)},
				{Value: -0.1, Color: palette.Hex(0x000041)},
				{Value: -0.005, Color: palette.Hex(0x35698C)},
				{Value: 0, Color: palette.Hex(0x40E0D0)},
			},
			Desert: {
				{Value: 0, Color: palette.Hex(0xC2B280)},
				{Value: 0.5, Color: palette.Hex(0xEEDC82)},
				{Value: 1, Color: palette.Hex(0xFFE4B5)},
			},
			Forest: {
				{Value: -1, Color: palette.Hex(0x05400A)},
				{Value: 0, Color: palette.Hex(0x527048)},
				{Value: 1, Color: palette.Hex(0x7CFC00)},
			},
			Tundra: {
				{Value: 0, Color: palette.Hex(0x9FA8A3)},
				{Value: 1, Color: palette.Hex(0xDCE3E1)},
			},
			Mountain: {
				{Value: 0, Color: palette.Hex(0x555555)},
				{Value: 1, Color: palette.Hex(0xDDDCDC)},
			},
			Snow: {
				{Value: 0, Color: palette.Hex(0xEEEEEE)},
				{Value: 1, Color: palette.Hex(0xFFFFFF)},
			},
		},
		Relief: palette.Palette{
			{Value: 0, Color: palette.Hex(0x000000)},
			{Value: 0.01, Color: palette.Hex(0x222222)},
			{Value: 0.05, Color: palette.Hex(0x333333)},
			{Value: 0.09, Color: palette.Hex(0x666666)},
			{Value: 0.1, Color: palette.Hex(0x777777)},
			{Value: 0.9, Color: palette.Hex(0x8C8C9C)},
		},
		FlatBiomeWeight: 0.5,
		ReliefSharpness: 20,
	}
}

// Validate reports every problem with p at once.
func (p Params) Validate() error {
	var errs error

	if !(p.Radius > 0) || math.IsInf(p.Radius, 0) {
		errs = multierr.Append(errs, fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidParams, p.Radius))
	}
	if !(p.Amplitude >= 0) || math.IsInf(p.Amplitude, 0) {
		errs = multierr.Append(errs, fmt.Errorf("%w: amplitude must be finite and non-negative, got %v", ErrInvalidParams, p.Amplitude))
	}
	if math.IsNaN(p.SeaLevel) || math.IsInf(p.SeaLevel, 0) {
		errs = multierr.Append(errs, fmt.Errorf("%w: sea level must be finite, got %v", ErrInvalidParams, p.SeaLevel))
	}

	for _, l := range p.Layers.named() {
		if err := l.layer.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: layers.%s: %w", ErrInvalidParams, l.name, err))
		}
	}

	errs = multierr.Append(errs, p.Palettes.Validate())
	return errs
}

// Validate checks that every biome has a usable palette and the blend
// constants are in range.
func (p Palettes) Validate() error {
	var errs error

	for _, b := range Biomes {
		pal, ok := p.Biomes[b]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrMissingPalette, b))
			continue
		}
		if err := pal.Validate(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: palettes.biomes.%s: %w", ErrInvalidParams, b, err))
		}
	}
	if err := p.Relief.Validate(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: palettes.relief: %w", ErrInvalidParams, err))
	}

	if !(p.FlatBiomeWeight >= 0 && p.FlatBiomeWeight <= 1) {
		errs = multierr.Append(errs, fmt.Errorf("%w: flat_biome_weight must be in [0, 1], got %v", ErrInvalidParams, p.FlatBiomeWeight))
	}
	if math.IsNaN(p.ReliefSharpness) || math.IsInf(p.ReliefSharpness, 0) {
		errs = multierr.Append(errs, fmt.Errorf("%w: relief_sharpness must be finite, got %v", ErrInvalidParams, p.ReliefSharpness))
	}
	return errs
}

type namedLayer struct {
	name  string
	layer noise.Layer
}

func (l Layers) named() []namedLayer {
	return []namedLayer{
		{"continent", l.Continent},
		{"big_mountain", l.BigMountain},
		{"mountain", l.Mountain},
		{"detail", l.Detail},
		{"temperature.coarse", l.Temperature.Coarse},
		{"temperature.fine", l.Temperature.Fine},
		{"humidity.coarse", l.Humidity.Coarse},
		{"humidity.fine", l.Humidity.Fine},
	}
}
