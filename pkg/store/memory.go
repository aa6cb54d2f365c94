package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory dataset store for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{datasets: make(map[string]*Dataset)}
}

// Put stores a dataset.
func (s *MemoryStore) Put(ctx context.Context, ds *Dataset) error {
	s.mu.Lock()
	s.datasets[ds.ID] = ds
	s.mu.Unlock()
	return nil
}

// Get retrieves a dataset by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Dataset, error) {
	s.mu.RLock()
	ds, ok := s.datasets[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return ds, nil
}

// Delete removes a dataset.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.datasets, id)
	s.mu.Unlock()
	return nil
}

// List returns metadata for all stored datasets, ordered by creation time
// then ID for stable output.
func (s *MemoryStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	infos := make([]Info, 0, len(s.datasets))
	for _, ds := range s.datasets {
		infos = append(infos, InfoOf(ds))
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.Before(infos[j].CreatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
