package cache

import (
	"context"
	"slices"
	"sync"

	"github.com/datar-psa/lazarsfeld/api"
)

// MemoryStore keeps entries for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]api.TokenLogprob
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]api.TokenLogprob)}
}

// Get implements Store
func (m *MemoryStore) Get(_ context.Context, key string) ([]api.TokenLogprob, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	candidates, ok := m.entries[key]
	return slices.Clone(candidates), ok, nil
}

// Put implements Store
func (m *MemoryStore) Put(_ context.Context, key, _ string, candidates []api.TokenLogprob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		m.entries[key] = slices.Clone(candidates)
	}
	return nil
}

// Len returns the number of cached entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

var _ Store = (*MemoryStore)(nil)
