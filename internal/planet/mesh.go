package planet

import (
	"sync"

	"github.com/ChenRaptor/procedural-universe/internal/terrain"
	"github.com/ChenRaptor/procedural-universe/pkg/icosphere"
	"github.com/ChenRaptor/procedural-universe/pkg/math"
)

// FloatsPerVertex is the stride of Mesh.Interleaved: position, color, normal.
const FloatsPerVertex = 9

// Vertex represents a planet mesh vertex with all attributes.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
	Normal   [3]float32
}

// Mesh holds the complete planet mesh data ready for GPU upload.
type Mesh struct {
	Vertices     []Vertex
	Indices      []uint32 // owned by the mesh
	Biomes       []terrain.Biome // per vertex
	Subdivisions int
	Bounds       Bounds

	// Topology is the unit sphere the mesh was deformed from. Shared with
	// the generator cache; treat as read-only.
	Topology *icosphere.Topology

	probeOnce sync.Once
	probe     *Probe
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// updateBounds expands bounds to include point.
func updateBounds(bounds *Bounds, point [3]float32) {
	for i := range 3 {
		if point[i] < bounds.Min[i] {
			bounds.Min[i] = point[i]
		}
		if point[i] > bounds.Max[i] {
			bounds.Max[i] = point[i]
		}
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Interleaved flattens the vertices into the GPU layout
// [px py pz r g b nx ny nz] per vertex.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out, v.Position[:]...)
		out = append(out, v.Color[:]...)
		out = append(out, v.Normal[:]...)
	}
	return out
}

// Positions returns the vertex positions as vectors.
func (m *Mesh) Positions() []math.Vec3 {
	out := make([]math.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = math.Vec3{X: v.Position[0], Y: v.Position[1], Z: v.Position[2]}
	}
	return out
}

// Probe returns a nearest-vertex index over the mesh's unit directions,
// building it on first use.
func (m *Mesh) Probe() *Probe {
	m.probeOnce.Do(func() {
		m.probe = NewProbe(m)
	})
	return m.probe
}

// Stats summarizes a mesh for reporting.
type Stats struct {
	Vertices   int
	Triangles  int
	Biomes     map[terrain.Biome]int
	OceanRatio float64
}

// Stats counts vertices per biome.
func (m *Mesh) Stats() Stats {
	s := Stats{
		Vertices:  len(m.Vertices),
		Triangles: m.TriangleCount(),
		Biomes:    make(map[terrain.Biome]int),
	}
	for _, b := range m.Biomes {
		s.Biomes[b]++
	}
	if len(m.Biomes) > 0 {
		s.OceanRatio = float64(s.Biomes[terrain.Ocean]) / float64(len(m.Biomes))
	}
	return s
}
