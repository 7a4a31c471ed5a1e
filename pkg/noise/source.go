package noise

import (
	"errors"
	"fmt"
	"sort"

	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// ErrUnknownBackend is returned by NewSource for an unregistered backend name.
var ErrUnknownBackend = errors.New("unknown noise backend")

// Backend names accepted by NewSource.
const (
	BackendPerlin      = "perlin"
	BackendOpenSimplex = "opensimplex"
	BackendClassic     = "classic"
)

// classicZOffset moves samples into the positive z half-space: go-perlin
// switches to 2D noise for negative z, which would tear the sphere in half.
const classicZOffset = 4096

var backends = map[string]func(seed int64) Source{
	BackendPerlin: func(seed int64) Source {
		if seed == 0 {
			return NewTable()
		}
		return NewSeededTable(seed)
	},
	BackendOpenSimplex: func(seed int64) Source {
		return openSimplexSource{opensimplex.New(seed)}
	},
	BackendClassic: func(seed int64) Source {
		return classicSource{perlin.NewPerlin(2, 2, 1, seed)}
	},
}

// NewSource returns the named noise backend seeded with seed.
// An empty name selects the improved Perlin table.
func NewSource(backend string, seed int64) (Source, error) {
	if backend == "" {
		backend = BackendPerlin
	}
	ctor, ok := backends[backend]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, backend, Backends())
	}
	return ctor(seed), nil
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type openSimplexSource struct {
	n opensimplex.Noise
}

func (s openSimplexSource) Noise3(x, y, z float64) float64 {
	return s.n.Eval3(x, y, z)
}

type classicSource struct {
	p *perlin.Perlin
}

func (s classicSource) Noise3(x, y, z float64) float64 {
	return s.p.Noise3D(x, y, z+classicZOffset)
}
