// Package icosphere builds unit spheres by recursively subdividing a
// regular icosahedron. Vertices created on shared edges are welded so the
// resulting mesh is watertight.
package icosphere

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/ChenRaptor/procedural-universe/pkg/math"
)

// MaxDepth is the deepest subdivision whose vertex count fits in uint32
// indices. Depth 15 would need 10*4^15+2 > 2^32 vertices.
const MaxDepth = 14

// Build errors.
var (
	ErrNegativeDepth = errors.New("subdivision depth must not be negative")
	ErrIndexOverflow = errors.New("subdivision depth overflows 32-bit indices")
)

// Topology is an indexed triangle mesh on the unit sphere. Indices come in
// triples wound counter-clockwise when viewed from outside the sphere.
// A Topology is shared between callers and must not be modified.
type Topology struct {
	Depth    int
	Vertices []math.Vec3
	Indices  []uint32
}

// TriangleCount returns the number of triangles in t.
func (t *Topology) TriangleCount() int {
	return len(t.Indices) / 3
}

// VertexCount returns 10*4^depth + 2, or 0 for a negative depth.
func VertexCount(depth int) int {
	if depth < 0 {
		return 0
	}
	return 10*(1<<(2*depth)) + 2
}

// TriangleCount returns 20*4^depth, or 0 for a negative depth.
func TriangleCount(depth int) int {
	if depth < 0 {
		return 0
	}
	return 20 * (1 << (2 * depth))
}

// CheckDepth reports whether depth can be built.
func CheckDepth(depth int) error {
	if depth < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeDepth, depth)
	}
	if depth > MaxDepth {
		return fmt.Errorf("%w: depth %d, max %d", ErrIndexOverflow, depth, MaxDepth)
	}
	return nil
}

// Build returns the icosphere subdivided depth times.
func Build(depth int) (*Topology, error) {
	if err := CheckDepth(depth); err != nil {
		return nil, err
	}

	b := newBuilder(depth)
	for range depth {
		b.subdivide()
	}

	return &Topology{
		Depth:    depth,
		Vertices: b.vertices,
		Indices:  b.indices,
	}, nil
}

// builder owns the growing vertex arena. Midpoints are referenced by index
// so slice growth never invalidates them.
type builder struct {
	vertices []math.Vec3
	indices  []uint32
}

func newBuilder(depth int) *builder {
	t := float32((1 + stdmath.Sqrt(5)) / 2)

	b := &builder{
		vertices: make([]math.Vec3, 0, VertexCount(depth)),
		indices:  make([]uint32, 0, 3*TriangleCount(0)),
	}

	corners := [12]math.Vec3{
		{X: -1, Y: t, Z: 0}, {X: 1, Y: t, Z: 0}, {X: -1, Y: -t, Z: 0}, {X: 1, Y: -t, Z: 0},
		{X: 0, Y: -1, Z: t}, {X: 0, Y: 1, Z: t}, {X: 0, Y: -1, Z: -t}, {X: 0, Y: 1, Z: -t},
		{X: t, Y: 0, Z: -1}, {X: t, Y: 0, Z: 1}, {X: -t, Y: 0, Z: -1}, {X: -t, Y: 0, Z: 1},
	}
	for _, c := range corners {
		b.vertices = append(b.vertices, c.Normalize())
	}

	b.indices = append(b.indices,
		// 5 faces around vertex 0
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		// 5 adjacent faces
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		// 5 faces around vertex 3
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		// 5 adjacent faces
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	)
	return b
}

// subdivide splits every triangle into four. The midpoint map lives for one
// pass only: edges of the previous level never reappear.
func (b *builder) subdivide() {
	edges := make(map[uint64]uint32, len(b.indices)/2)
	next := make([]uint32, 0, len(b.indices)*4)

	for i := 0; i < len(b.indices); i += 3 {
		v1, v2, v3 := b.indices[i], b.indices[i+1], b.indices[i+2]

		a := b.midpoint(edges, v1, v2)
		bc := b.midpoint(edges, v2, v3)
		c := b.midpoint(edges, v3, v1)

		next = append(next,
			v1, a, c,
			v2, bc, a,
			v3, c, bc,
			a, bc, c,
		)
	}
	b.indices = next
}

func (b *builder) midpoint(edges map[uint64]uint32, i, j uint32) uint32 {
	key := edgeKey(i, j)
	if idx, ok := edges[key]; ok {
		return idx
	}

	mid := b.vertices[i].Add(b.vertices[j]).Scale(0.5).Normalize()
	idx := uint32(len(b.vertices))
	b.vertices = append(b.vertices, mid)
	edges[key] = idx
	return idx
}

// edgeKey packs an unordered index pair as min<<32 | max.
func edgeKey(i, j uint32) uint64 {
	if i > j {
		i, j = j, i
	}
	return uint64(i)<<32 | uint64(j)
}
