package noise

import (
	"errors"
	"fmt"
	"math"
)

// Fractal errors.
var (
	ErrInvalidOctaves     = errors.New("octave count must be positive")
	ErrInvalidPersistence = errors.New("persistence must be a finite non-negative number")
	ErrInvalidScale       = errors.New("noise scale must be finite")
	ErrNilSource          = errors.New("nil noise source")
)

// Source evaluates a 3D noise field. Implementations must be pure: the same
// inputs always return the same value.
type Source interface {
	Noise3(x, y, z float64) float64
}

// Layer describes one fractal noise signal.
type Layer struct {
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Scale       float64 `yaml:"scale"`
}

// Validate reports whether the layer can be evaluated.
func (l Layer) Validate() error {
	if l.Octaves <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidOctaves, l.Octaves)
	}
	if l.Persistence < 0 || !isFinite(l.Persistence) {
		return fmt.Errorf("%w: got %v", ErrInvalidPersistence, l.Persistence)
	}
	if !isFinite(l.Scale) {
		return fmt.Errorf("%w: got %v", ErrInvalidScale, l.Scale)
	}
	return nil
}

// FBM sums octaves of src at increasing frequency and decreasing amplitude,
// normalized by the total amplitude so the result stays roughly in [-1, 1].
func FBM(src Source, x, y, z float64, octaves int, persistence, scale float64) (float64, error) {
	l := Layer{Octaves: octaves, Persistence: persistence, Scale: scale}
	if err := l.Validate(); err != nil {
		return 0, err
	}
	return fbm(src, x, y, z, l), nil
}

func fbm(src Source, x, y, z float64, l Layer) float64 {
	var total, norm float64
	freq := l.Scale
	amp := 1.0
	for i := 0; i < l.Octaves; i++ {
		total += src.Noise3(x*freq, y*freq, z*freq) * amp
		norm += amp
		amp *= l.Persistence
		freq *= 2
	}
	return total / norm
}

// Fractal is a validated Layer bound to a Source.
type Fractal struct {
	src   Source
	layer Layer
}

// NewFractal validates layer once so Eval can skip the checks.
func NewFractal(src Source, layer Layer) (*Fractal, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if err := layer.Validate(); err != nil {
		return nil, err
	}
	return &Fractal{src: src, layer: layer}, nil
}

// Eval returns the fractal sum at (x, y, z).
func (f *Fractal) Eval(x, y, z float64) float64 {
	return fbm(f.src, x, y, z, f.layer)
}

// Layer returns the parameters f was built with.
func (f *Fractal) Layer() Layer {
	return f.layer
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
