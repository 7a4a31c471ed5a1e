package icosphere

import "sync"

// Cache memoizes topologies by depth. It is safe for concurrent use.
type Cache struct {
	data map[int]*Topology
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[int]*Topology),
	}
}

// Get returns the topology for depth, building it on first use.
// Concurrent callers asking for the same depth wait for a single build.
func (c *Cache) Get(depth int) (*Topology, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if topo, ok := c.data[depth]; ok {
		c.hits++
		return topo, nil
	}
	c.misses++

	topo, err := Build(depth)
	if err != nil {
		return nil, err
	}
	c.data[depth] = topo
	return topo, nil
}

// Len returns the number of cached depths.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear drops every cached topology and resets the stats.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[int]*Topology)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
