package store

import (
	"sync"
	"time"

	"github.com/AngelCh415/influencer-metrics/internal/models"
)

// MemoryStore memoizes the loaded dataset for the life of the process. A
// snapshot is never mutated after Replace; readers get it by value.
type MemoryStore struct {
	mu      sync.RWMutex
	ds      models.Dataset
	loaded  bool
	version int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Replace swaps in a freshly loaded dataset.
func (s *MemoryStore) Replace(ds models.Dataset) {
	if ds.LoadedAt.IsZero() {
		ds.LoadedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
	s.loaded = true
	s.version++
}

// Snapshot returns the current dataset and whether one has been loaded.
func (s *MemoryStore) Snapshot() (models.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds, s.loaded
}

// Version counts successful loads; it is 0 until the first Replace.
func (s *MemoryStore) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Counts reports rows per dataset of the current snapshot.
func (s *MemoryStore) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"influencers": len(s.ds.Influencers),
		"posts":       len(s.ds.Posts),
		"tracking":    len(s.ds.Tracking),
		"payouts":     len(s.ds.Payouts),
	}
}
