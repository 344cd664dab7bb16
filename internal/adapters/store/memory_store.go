package store

import (
	"context"
	"sync"

	"github.com/skip405/kickbox-verifier/internal/core"
)

// MemoryStore is an in-memory implementation of the StateStore interface.
// The whole collection is copied on both Load and Save so callers never
// share the internal map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]core.CacheEntry
}

// NewMemoryStore creates a new in-memory state store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]core.CacheEntry),
	}
}

// Load reads the full cache collection.
func (s *MemoryStore) Load(ctx context.Context) (map[string]core.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]core.CacheEntry, len(s.entries))
	for key, entry := range s.entries {
		out[key] = entry
	}

	return out, nil
}

// Save replaces the full cache collection.
func (s *MemoryStore) Save(ctx context.Context, entries map[string]core.CacheEntry) error {
	replacement := make(map[string]core.CacheEntry, len(entries))
	for key, entry := range entries {
		replacement[key] = entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = replacement
	return nil
}

// Clear removes all entries.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]core.CacheEntry)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
