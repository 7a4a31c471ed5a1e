// Package planet assembles terrain samples, colors and normals into
// renderable planet meshes.
package planet

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/multierr"

	"github.com/ChenRaptor/procedural-universe/internal/terrain"
	"github.com/ChenRaptor/procedural-universe/pkg/icosphere"
	"github.com/ChenRaptor/procedural-universe/pkg/noise"
	"github.com/ChenRaptor/procedural-universe/pkg/palette"
)

// ErrInvalidConfig wraps every configuration problem reported by Validate.
var ErrInvalidConfig = errors.New("invalid planet configuration")

// Config describes one planet. It is read once by New and never mutated.
type Config struct {
	Subdivisions int              `yaml:"subdivisions"`
	Workers      int              `yaml:"workers"` // 0 = one per CPU
	Noise        NoiseConfig      `yaml:"noise"`
	Terrain      terrain.Params   `yaml:"terrain"`
	LOD          LODConfig        `yaml:"lod"`
	Atmosphere   AtmosphereConfig `yaml:"atmosphere"`
}

// NoiseConfig selects the gradient noise backend.
type NoiseConfig struct {
	Backend string `yaml:"backend"`
	Seed    int64  `yaml:"seed"`
}

// LODConfig is the inclusive depth range built by GenerateLODs.
type LODConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// AtmosphereConfig describes the translucent shell around the planet.
type AtmosphereConfig struct {
	DepthOffset int         `yaml:"depth_offset"` // subdivisions below the surface mesh
	Scale       float64     `yaml:"scale"`        // relative to the terrain radius
	Color       palette.RGB `yaml:"color"`
}

// Default returns the reference planet configuration.
func Default() Config {
	return Config{
		Subdivisions: 9,
		Workers:      0,
		Noise: NoiseConfig{
			Backend: noise.BackendPerlin,
			Seed:    0,
		},
		Terrain: terrain.DefaultParams(),
		LOD: LODConfig{
			Min: 0,
			Max: 9,
		},
		Atmosphere: AtmosphereConfig{
			DepthOffset: 5,
			Scale:       1.019,
			Color:       palette.Hex(0xCCD0D2),
		},
	}
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs error
	invalid := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if err := icosphere.CheckDepth(c.Subdivisions); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: subdivisions: %w", ErrInvalidConfig, err))
	}
	if c.Workers < 0 {
		invalid("workers must not be negative, got %d", c.Workers)
	}
	if c.Noise.Backend != "" && !slices.Contains(noise.Backends(), c.Noise.Backend) {
		errs = multierr.Append(errs, fmt.Errorf("%w: noise.backend: %w: %q", ErrInvalidConfig, noise.ErrUnknownBackend, c.Noise.Backend))
	}

	if err := icosphere.CheckDepth(c.LOD.Min); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: lod.min: %w", ErrInvalidConfig, err))
	}
	if err := icosphere.CheckDepth(c.LOD.Max); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: lod.max: %w", ErrInvalidConfig, err))
	}
	if c.LOD.Min > c.LOD.Max {
		invalid("lod.min %d is above lod.max %d", c.LOD.Min, c.LOD.Max)
	}

	if c.Atmosphere.DepthOffset < 0 {
		invalid("atmosphere.depth_offset must not be negative, got %d", c.Atmosphere.DepthOffset)
	}
	if !(c.Atmosphere.Scale > 0) || math.IsInf(c.Atmosphere.Scale, 0) {
		invalid("atmosphere.scale must be positive, got %v", c.Atmosphere.Scale)
	}

	return multierr.Append(errs, c.Terrain.Validate())
}

// AtmosphereDepth returns the subdivision depth of the atmosphere shell.
func (c Config) AtmosphereDepth() int {
	return max(c.Subdivisions-c.Atmosphere.DepthOffset, 0)
}
