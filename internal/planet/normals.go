package planet

import "github.com/ChenRaptor/procedural-universe/pkg/math"

var up = math.Vec3{X: 0, Y: 1, Z: 0}

// AccumulateNormals returns one smooth normal per position: the normalized
// sum of the unit face normals of every triangle touching it. A vertex that
// touches no triangle (or only degenerate ones) gets its own direction from
// the origin, or +Y when it sits at the origin.
func AccumulateNormals(positions []math.Vec3, indices []uint32) []math.Vec3 {
	normals := make([]math.Vec3, len(positions))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		v0, v1, v2 := positions[i0], positions[i1], positions[i2]

		face := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		normals[i0] = normals[i0].Add(face)
		normals[i1] = normals[i1].Add(face)
		normals[i2] = normals[i2].Add(face)
	}

	for i, n := range normals {
		normals[i] = finishNormal(n, positions[i])
	}
	return normals
}

// finishNormal normalizes an accumulated normal, falling back when the sum
// is too short to normalize.
func finishNormal(n, position math.Vec3) math.Vec3 {
	if normalized := n.Normalize(); isUnit(normalized) {
		return normalized
	}
	if dir := position.Normalize(); isUnit(dir) {
		return dir
	}
	return up
}

func isUnit(v math.Vec3) bool {
	l := v.Length()
	return l > 0.999 && l < 1.001
}
