package icosphere

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestBuildCounts(t *testing.T) {
	for depth := 0; depth <= 4; depth++ {
		topo, err := Build(depth)
		if err != nil {
			t.Fatalf("Build(%d): %v", depth, err)
		}
		if got, want := len(topo.Vertices), VertexCount(depth); got != want {
			t.Errorf("depth %d: %d vertices, want %d", depth, got, want)
		}
		if got, want := topo.TriangleCount(), TriangleCount(depth); got != want {
			t.Errorf("depth %d: %d triangles, want %d", depth, got, want)
		}
		if topo.Depth != depth {
			t.Errorf("Depth = %d, want %d", topo.Depth, depth)
		}
	}
}

func TestBuildBaseIcosahedron(t *testing.T) {
	topo, err := Build(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(topo.Vertices) != 12 {
		t.Errorf("expected 12 vertices, got %d", len(topo.Vertices))
	}
	if topo.TriangleCount() != 20 {
		t.Errorf("expected 20 triangles, got %d", topo.TriangleCount())
	}
	for i, v := range topo.Vertices {
		if d := math.Abs(float64(v.Length()) - 1); d > 1e-6 {
			t.Errorf("vertex %d at distance %v from origin", i, v.Length())
		}
	}
}

func TestBuildFirstSubdivision(t *testing.T) {
	topo, err := Build(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(topo.Vertices) != 42 {
		t.Errorf("expected 42 vertices, got %d", len(topo.Vertices))
	}
	if topo.TriangleCount() != 80 {
		t.Errorf("expected 80 triangles, got %d", topo.TriangleCount())
	}
}

func TestBuildUnitLengthAndIndexRange(t *testing.T) {
	topo, err := Build(4)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range topo.Vertices {
		if d := math.Abs(float64(v.Length()) - 1); d > 1e-5 {
			t.Fatalf("vertex %d has length %v", i, v.Length())
		}
	}
	n := uint32(len(topo.Vertices))
	for i, idx := range topo.Indices {
		if idx >= n {
			t.Fatalf("index %d = %d out of range (%d vertices)", i, idx, n)
		}
	}
}

func TestBuildWatertight(t *testing.T) {
	for depth := 0; depth <= 3; depth++ {
		topo, err := Build(depth)
		if err != nil {
			t.Fatal(err)
		}

		undirected := make(map[uint64]int)
		directed := make(map[[2]uint32]int)
		for i := 0; i < len(topo.Indices); i += 3 {
			tri := [3]uint32{topo.Indices[i], topo.Indices[i+1], topo.Indices[i+2]}
			for k := range 3 {
				a, b := tri[k], tri[(k+1)%3]
				undirected[edgeKey(a, b)]++
				directed[[2]uint32{a, b}]++
			}
		}

		for key, count := range undirected {
			if count != 2 {
				t.Fatalf("depth %d: edge %d-%d shared by %d triangles", depth, key>>32, key&0xFFFFFFFF, count)
			}
		}
		// Consistent winding: each directed edge is used once, its reverse by the neighbour.
		for e, count := range directed {
			if count != 1 {
				t.Fatalf("depth %d: directed edge %v used %d times", depth, e, count)
			}
		}
		// Euler characteristic of a sphere: V - E + F = 2.
		if chi := len(topo.Vertices) - len(undirected) + topo.TriangleCount(); chi != 2 {
			t.Errorf("depth %d: Euler characteristic %d, want 2", depth, chi)
		}
	}
}

func TestBuildNoDuplicateVertices(t *testing.T) {
	topo, err := Build(3)
	if err != nil {
		t.Fatal(err)
	}
	const tolerance = 1e-4
	for i := range topo.Vertices {
		for j := i + 1; j < len(topo.Vertices); j++ {
			if topo.Vertices[i].Distance(topo.Vertices[j]) < tolerance {
				t.Fatalf("vertices %d and %d coincide at %v", i, j, topo.Vertices[i])
			}
		}
	}
}

func TestBuildOutwardWinding(t *testing.T) {
	topo, err := Build(2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(topo.Indices); i += 3 {
		a := topo.Vertices[topo.Indices[i]]
		b := topo.Vertices[topo.Indices[i+1]]
		c := topo.Vertices[topo.Indices[i+2]]
		normal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c)
		if normal.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d is wound inward", i/3)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, _ := Build(3)
	b, _ := Build(3)
	for i := range a.Vertices {
		if a.Vertices[i] != b.Vertices[i] {
			t.Fatalf("vertex %d differs between builds", i)
		}
	}
	for i := range a.Indices {
		if a.Indices[i] != b.Indices[i] {
			t.Fatalf("index %d differs between builds", i)
		}
	}
}

func TestBuildInvalidDepth(t *testing.T) {
	tests := []struct {
		depth int
		want  error
	}{
		{-1, ErrNegativeDepth},
		{MaxDepth + 1, ErrIndexOverflow},
		{32, ErrIndexOverflow},
	}
	for _, tt := range tests {
		if _, err := Build(tt.depth); !errors.Is(err, tt.want) {
			t.Errorf("Build(%d) error = %v, want %v", tt.depth, err, tt.want)
		}
	}

	if err := CheckDepth(MaxDepth); err != nil {
		t.Errorf("CheckDepth(MaxDepth) = %v", err)
	}
	if VertexCount(MaxDepth) > math.MaxUint32 {
		t.Errorf("VertexCount(MaxDepth) = %d exceeds uint32", VertexCount(MaxDepth))
	}
	if VertexCount(MaxDepth+1) <= math.MaxUint32 {
		t.Errorf("VertexCount(MaxDepth+1) = %d should exceed uint32", VertexCount(MaxDepth+1))
	}
}

func TestCountsFormula(t *testing.T) {
	tests := []struct {
		depth     int
		vertices  int
		triangles int
	}{
		{0, 12, 20},
		{1, 42, 80},
		{2, 162, 320},
		{9, 2621442, 5242880},
		{-1, 0, 0},
	}
	for _, tt := range tests {
		if got := VertexCount(tt.depth); got != tt.vertices {
			t.Errorf("VertexCount(%d) = %d, want %d", tt.depth, got, tt.vertices)
		}
		if got := TriangleCount(tt.depth); got != tt.triangles {
			t.Errorf("TriangleCount(%d) = %d, want %d", tt.depth, got, tt.triangles)
		}
	}
}

func TestCache(t *testing.T) {
	cache := NewCache()

	first, err := cache.Get(2)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Get(2)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected the cached topology to be returned")
	}

	hits, misses := cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = (%d, %d), want (1, 1)", hits, misses)
	}

	if _, err := cache.Get(-2); !errors.Is(err, ErrNegativeDepth) {
		t.Errorf("Get(-2) error = %v, want ErrNegativeDepth", err)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() after Clear = %d", cache.Len())
	}
	if hits, misses := cache.Stats(); hits != 0 || misses != 0 {
		t.Errorf("Stats() after Clear = (%d, %d)", hits, misses)
	}
}

func TestCacheConcurrent(t *testing.T) {
	cache := NewCache()

	var wg sync.WaitGroup
	results := make([]*Topology, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			topo, err := cache.Get(3)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = topo
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != results[0] {
			t.Fatalf("goroutine %d got a different topology", i)
		}
	}
	hits, misses := cache.Stats()
	if misses != 1 || hits != len(results)-1 {
		t.Errorf("Stats() = (%d, %d), want (%d, 1)", hits, misses, len(results)-1)
	}
}
