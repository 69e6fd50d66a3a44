package testutil

import "sync"

// FixedRunIDGenerator returns predetermined run IDs in order.
//
// This enables deterministic golden snapshot comparison: the same run with
// the same generator produces byte-identical summaries.
//
// Thread-safe via internal mutex.
type FixedRunIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedRunIDGenerator creates a generator that returns ids in order.
// Panics when exhausted, to catch tests creating more runs than expected.
func NewFixedRunIDGenerator(ids ...string) *FixedRunIDGenerator {
	return &FixedRunIDGenerator{ids: ids}
}

// Generate returns the next predetermined run ID.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedRunIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
