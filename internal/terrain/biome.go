package terrain

import (
	"errors"
	"fmt"
)

// Biome is a climate category assigned to a surface point.
type Biome uint8

// Biome types.
const (
	Ocean Biome = iota
	Desert
	Forest
	Tundra
	Mountain
	Snow
)

// ErrUnknownBiome is returned when decoding an unrecognised biome name.
var ErrUnknownBiome = errors.New("unknown biome")

// Biomes lists every biome in declaration order.
var Biomes = []Biome{Ocean, Desert, Forest, Tundra, Mountain, Snow}

var biomeNames = [...]string{
	Ocean:    "ocean",
	Desert:   "desert",
	Forest:   "forest",
	Tundra:   "tundra",
	Mountain: "mountain",
	Snow:     "snow",
}

// String returns the lower-case biome name.
func (b Biome) String() string {
	if int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return fmt.Sprintf("biome(%d)", uint8(b))
}

// MarshalText encodes the biome by name so it can key YAML maps.
func (b Biome) MarshalText() ([]byte, error) {
	if int(b) >= len(biomeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBiome, uint8(b))
	}
	return []byte(biomeNames[b]), nil
}

// UnmarshalText decodes a biome name.
func (b *Biome) UnmarshalText(text []byte) error {
	parsed, err := ParseBiome(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBiome returns the biome with the given name.
func ParseBiome(name string) (Biome, error) {
	for i, n := range biomeNames {
		if n == name {
			return Biome(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBiome, name)
}

// Climate thresholds.
const (
	hotThreshold  = 0.7
	mildThreshold = 0.3
	dryThreshold  = 0.3
)

// Classify maps climate signals to a biome. Rules are checked in order and
// the first match wins.
func Classify(temperature, humidity, radius, seaLevel float64) Biome {
	dry := humidity < dryThreshold

	switch {
	case radius < seaLevel:
		return Ocean
	case temperature > hotThreshold:
		if dry {
			return Desert
		}
		return Forest
	case temperature > mildThreshold:
		if dry {
			return Tundra
		}
		return Forest
	default:
		if dry {
			return Tundra
		}
		return Snow
	}
}
