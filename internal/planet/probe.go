package planet

import (
	stdmath "math"
	"slices"

	"github.com/ChenRaptor/procedural-universe/pkg/math"
)

// Probe answers nearest-vertex queries over a mesh's unit directions with a
// 3D KD-tree. Nodes live in one slice and reference children by index.
type Probe struct {
	points []math.Vec3
	nodes  []kdNode
	root   int32
}

type kdNode struct {
	point       int32
	left, right int32 // -1 when absent
	axis        uint8
}

// NewProbe indexes the vertices of m. Directions come from the source
// topology when present, otherwise from the normalized positions.
func NewProbe(m *Mesh) *Probe {
	var points []math.Vec3
	if m.Topology != nil {
		points = m.Topology.Vertices
	} else {
		points = m.Positions()
		for i := range points {
			points[i] = points[i].Normalize()
		}
	}

	p := &Probe{
		points: points,
		nodes:  make([]kdNode, 0, len(points)),
		root:   -1,
	}

	order := make([]int32, len(points))
	for i := range order {
		order[i] = int32(i)
	}
	p.root = p.build(order, 0)
	return p
}

func (p *Probe) build(order []int32, depth int) int32 {
	if len(order) == 0 {
		return -1
	}

	axis := depth % 3
	slices.SortFunc(order, func(a, b int32) int {
		ca, cb := p.points[a].Component(axis), p.points[b].Component(axis)
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		default:
			return int(a - b)
		}
	})

	mid := len(order) / 2
	idx := int32(len(p.nodes))
	p.nodes = append(p.nodes, kdNode{point: order[mid], axis: uint8(axis)})

	left := p.build(order[:mid], depth+1)
	right := p.build(order[mid+1:], depth+1)
	p.nodes[idx].left = left
	p.nodes[idx].right = right
	return idx
}

// Len returns the number of indexed vertices.
func (p *Probe) Len() int {
	return len(p.points)
}

// Nearest returns the index of the vertex closest to dir, or -1 for an
// empty mesh. dir need not be normalized.
func (p *Probe) Nearest(dir math.Vec3) int {
	if p.root < 0 {
		return -1
	}
	target := dir.Normalize()

	best := int32(-1)
	bestDist := float32(stdmath.MaxFloat32)
	p.search(p.root, target, &best, &bestDist)
	return int(best)
}

func (p *Probe) search(n int32, target math.Vec3, best *int32, bestDist *float32) {
	if n < 0 {
		return
	}
	node := &p.nodes[n]
	point := p.points[node.point]

	d := point.Sub(target)
	if dist := d.Dot(d); dist < *bestDist {
		*bestDist = dist
		*best = node.point
	}

	diff := target.Component(int(node.axis)) - point.Component(int(node.axis))
	near, far := node.left, node.right
	if diff > 0 {
		near, far = far, near
	}

	p.search(near, target, best, bestDist)
	if diff*diff < *bestDist {
		p.search(far, target, best, bestDist)
	}
}

// Direction converts latitude and longitude in degrees to a unit vector.
// +Y is the north pole and longitude 0 lies along +X.
func Direction(latDeg, lonDeg float64) math.Vec3 {
	lat := latDeg * stdmath.Pi / 180
	lon := lonDeg * stdmath.Pi / 180
	return math.Vec3{
		X: float32(stdmath.Cos(lat) * stdmath.Cos(lon)),
		Y: float32(stdmath.Sin(lat)),
		Z: float32(stdmath.Cos(lat) * stdmath.Sin(lon)),
	}
}
