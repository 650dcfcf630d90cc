// Package memory stores archived payloads in-memory for development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/harborlight/ipsearch/internal/archive"
	"github.com/harborlight/ipsearch/internal/hash/sha256"
)

// Store keeps payloads in a map keyed by archive key.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Put copies the payload and returns a memory:// link.
func (s *Store) Put(_ context.Context, key, contentType string, data []byte) (archive.Entry, error) {
	if key == "" {
		return archive.Entry{}, fmt.Errorf("key is required")
	}

	s.mu.Lock()
	s.data[key] = append([]byte(nil), data...)
	s.mu.Unlock()

	return archive.Entry{
		Link:        fmt.Sprintf("memory://%s", key),
		Hash:        sha256.Fingerprint(data),
		ContentType: contentType,
		Bytes:       len(data),
	}, nil
}

// Get returns the stored payload, for test inspection.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
