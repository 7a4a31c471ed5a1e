package planet

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/ChenRaptor/procedural-universe/internal/terrain"
	"github.com/ChenRaptor/procedural-universe/pkg/icosphere"
	"github.com/ChenRaptor/procedural-universe/pkg/math"
	"github.com/ChenRaptor/procedural-universe/pkg/noise"
	"github.com/ChenRaptor/procedural-universe/pkg/palette"
)

// Generator errors.
var (
	ErrClosed    = errors.New("planet generator is closed")
	ErrEmptyMesh = errors.New("mesh has no vertices")
)

const defaultChunkSize = 4096

// Generator builds planet meshes from a validated Config. Meshes are
// deterministic: the same Config always yields the same output regardless
// of the worker count.
type Generator struct {
	cfg        Config
	deformer   *terrain.Deformer
	topologies *icosphere.Cache
	pool       pond.Pool
	workers    int
	chunkSize  int
	log        *zap.Logger
	closed     atomic.Bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for progress and timing.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithTopologyCache shares an icosphere cache between generators.
func WithTopologyCache(c *icosphere.Cache) Option {
	return func(g *Generator) {
		if c != nil {
			g.topologies = c
		}
	}
}

// WithChunkSize sets how many vertices each worker task samples.
func WithChunkSize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.chunkSize = n
		}
	}
}

// New validates cfg and starts the worker pool. Call Close when done.
func New(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	src, err := noise.NewSource(cfg.Noise.Backend, cfg.Noise.Seed)
	if err != nil {
		return nil, fmt.Errorf("creating noise source: %w", err)
	}
	deformer, err := terrain.NewDeformer(src, cfg.Terrain)
	if err != nil {
		return nil, fmt.Errorf("creating terrain deformer: %w", err)
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	g := &Generator{
		cfg:        cfg,
		deformer:   deformer,
		topologies: icosphere.NewCache(),
		workers:    workers,
		chunkSize:  defaultChunkSize,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.pool = pond.NewPool(workers)

	g.log.Debug("planet generator ready",
		zap.Int("workers", workers),
		zap.String("noise", cfg.Noise.Backend),
		zap.Int64("seed", cfg.Noise.Seed),
		zap.Int("subdivisions", cfg.Subdivisions))

	return g, nil
}

// Close stops the worker pool after in-flight tasks finish.
func (g *Generator) Close() {
	if g.closed.Swap(true) {
		return
	}
	g.pool.StopAndWait()
}

// Config returns the configuration g was built with.
func (g *Generator) Config() Config {
	return g.cfg
}

// Deformer returns the terrain deformer shared by all meshes of g.
func (g *Generator) Deformer() *terrain.Deformer {
	return g.deformer
}

// Generate builds the planet at the configured subdivision depth.
func (g *Generator) Generate() (*Mesh, error) {
	return g.GenerateAt(g.cfg.Subdivisions)
}

// GenerateAt builds the planet at an explicit subdivision depth.
func (g *Generator) GenerateAt(depth int) (*Mesh, error) {
	if g.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()

	topo, err := g.topologies.Get(depth)
	if err != nil {
		return nil, fmt.Errorf("building icosphere: %w", err)
	}
	built := time.Now()

	n := len(topo.Vertices)
	positions := make([]math.Vec3, n)
	colors := make([]palette.RGB, n)
	biomes := make([]terrain.Biome, n)

	err = g.parallel(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			v := topo.Vertices[i]
			s := g.deformer.Sample(v)
			positions[i] = v.Scale(float32(s.Radius))
			colors[i] = g.deformer.Color(s)
			biomes[i] = s.Biome
		}
	})
	if err != nil {
		return nil, fmt.Errorf("sampling terrain: %w", err)
	}
	sampled := time.Now()

	normals := AccumulateNormals(positions, topo.Indices)
	mesh := assemble(topo, positions, colors, normals)
	mesh.Biomes = biomes

	g.log.Debug("planet mesh generated",
		zap.Int("depth", depth),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Duration("topology", built.Sub(start)),
		zap.Duration("sampling", sampled.Sub(built)),
		zap.Duration("normals", time.Since(sampled)))

	return mesh, nil
}

// GenerateLODs builds one mesh per depth in the configured LOD range,
// coarsest first.
func (g *Generator) GenerateLODs() ([]*Mesh, error) {
	lods := make([]*Mesh, 0, g.cfg.LOD.Max-g.cfg.LOD.Min+1)
	for depth := g.cfg.LOD.Min; depth <= g.cfg.LOD.Max; depth++ {
		mesh, err := g.GenerateAt(depth)
		if err != nil {
			return nil, fmt.Errorf("generating LOD %d: %w", depth, err)
		}
		lods = append(lods, mesh)
	}

	hits, misses := g.topologies.Stats()
	g.log.Info("LOD chain generated",
		zap.Int("levels", len(lods)),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses))

	return lods, nil
}

// Atmosphere builds the uniformly colored shell around the planet.
func (g *Generator) Atmosphere() (*Mesh, error) {
	if g.closed.Load() {
		return nil, ErrClosed
	}

	depth := g.cfg.AtmosphereDepth()
	topo, err := g.topologies.Get(depth)
	if err != nil {
		return nil, fmt.Errorf("building atmosphere icosphere: %w", err)
	}

	radius := float32(g.cfg.Terrain.Radius * g.cfg.Atmosphere.Scale)
	n := len(topo.Vertices)
	positions := make([]math.Vec3, n)
	colors := make([]palette.RGB, n)
	for i, v := range topo.Vertices {
		positions[i] = v.Scale(radius)
		colors[i] = g.cfg.Atmosphere.Color
	}

	normals := AccumulateNormals(positions, topo.Indices)
	mesh := assemble(topo, positions, colors, normals)

	g.log.Debug("atmosphere generated",
		zap.Int("depth", depth),
		zap.Float32("radius", radius),
		zap.Int("vertices", mesh.VertexCount()))

	return mesh, nil
}

// Describe re-derives the terrain sample of the mesh vertex nearest to dir.
func (g *Generator) Describe(mesh *Mesh, dir math.Vec3) (int, terrain.Sample, error) {
	probe := mesh.Probe()
	idx := probe.Nearest(dir)
	if idx < 0 {
		return -1, terrain.Sample{}, ErrEmptyMesh
	}
	return idx, g.deformer.Sample(probe.points[idx]), nil
}

// parallel splits [0, n) into chunks and runs fn on each from the pool.
// Chunks are disjoint, so fn may write its range without locking.
func (g *Generator) parallel(n int, fn func(lo, hi int)) error {
	group := g.pool.NewGroup()
	for lo := 0; lo < n; lo += g.chunkSize {
		hi := min(lo+g.chunkSize, n)
		group.Submit(func() {
			fn(lo, hi)
		})
	}
	return group.Wait()
}

// assemble interleaves per-vertex attributes into a Mesh. The index buffer
// is copied so callers may edit it without touching the cached topology.
func assemble(topo *icosphere.Topology, positions []math.Vec3, colors []palette.RGB, normals []math.Vec3) *Mesh {
	mesh := &Mesh{
		Vertices:     make([]Vertex, len(positions)),
		Indices:      slices.Clone(topo.Indices),
		Subdivisions: topo.Depth,
		Bounds:       emptyBounds(),
		Topology:     topo,
	}
	for i := range positions {
		pos := positions[i].Array()
		mesh.Vertices[i] = Vertex{
			Position: pos,
			Color:    colors[i].Array(),
			Normal:   normals[i].Array(),
		}
		updateBounds(&mesh.Bounds, pos)
	}
	return mesh
}
