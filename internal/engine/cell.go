package engine

import "sync"

// SummaryCell is the published-summary slot UI consumers read. The pipeline
// is the sole writer; each Publish atomically replaces the previous snapshot
// (last write wins), so readers never observe partial state.
type SummaryCell struct {
	mu sync.RWMutex
	s  Summary
	ok bool
}

func NewSummaryCell() *SummaryCell {
	return &SummaryCell{}
}

// Publish replaces the current snapshot.
func (c *SummaryCell) Publish(s Summary) {
	c.mu.Lock()
	c.s = s
	c.ok = true
	c.mu.Unlock()
}

// Load returns the current snapshot and whether one has been published yet.
func (c *SummaryCell) Load() (Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.s, c.ok
}
