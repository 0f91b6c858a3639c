package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/flightsync/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

type metadataEntry struct {
	value     string
	updatedAt time.Time
}

// MetadataStore is an in-memory implementation of driven.MetadataStore.
type MetadataStore struct {
	mu      sync.RWMutex
	entries map[string]metadataEntry
}

// NewMetadataStore creates a new in-memory metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		entries: make(map[string]metadataEntry),
	}
}

// Get returns the value for key and whether it exists.
func (s *MetadataStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry.value, ok, nil
}

// Set creates or replaces the value for key.
func (s *MetadataStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = metadataEntry{value: value, updatedAt: time.Now()}
	return nil
}

// UpdatedAt returns when key was last written; zero if never.
func (s *MetadataStore) UpdatedAt(key string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key].updatedAt
}
