// Package memory keeps search history in a bounded in-memory ring for
// development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/harborlight/ipsearch/internal/history"
)

const defaultCapacity = 100

// Store holds the most recent search records, newest first.
type Store struct {
	mu      sync.RWMutex
	cap     int
	records []history.SearchRecord
}

// New creates a store keeping at most capacity records. capacity <= 0 uses
// the default.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Store{cap: capacity}
}

// SaveSearch prepends the record, evicting the oldest past capacity.
func (s *Store) SaveSearch(_ context.Context, rec history.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]history.SearchRecord{rec}, s.records...)
	if len(s.records) > s.cap {
		s.records = s.records[:s.cap]
	}
	return nil
}

// RecentSearches returns up to limit records, newest first.
func (s *Store) RecentSearches(_ context.Context, limit int) ([]history.SearchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]history.SearchRecord, limit)
	copy(out, s.records[:limit])
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() {}
