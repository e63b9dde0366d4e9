package tle

import (
	"sync"
	"sync/atomic"
)

// Store holds the dataset the HTTP API builds documents from.
// Safe for concurrent use.
type Store struct {
	dataset atomic.Pointer[TLEDataset]
	mu      sync.Mutex // serializes refreshes
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current dataset, or nil if none has been loaded.
func (s *Store) Get() *TLEDataset {
	return s.dataset.Load()
}

// Set atomically replaces the current dataset.
func (s *Store) Set(ds *TLEDataset) {
	s.dataset.Store(ds)
}

// Refresh runs load while holding the refresh lock and stores its result.
// Concurrent refreshes wait for each other rather than fetching twice at once.
func (s *Store) Refresh(load func() (*TLEDataset, error)) (*TLEDataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := load()
	if err != nil {
		return nil, err
	}
	s.dataset.Store(ds)
	return ds, nil
}
