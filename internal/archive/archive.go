// Package archive stores raw acquisition payloads so a search's winning
// adapter output can be inspected after the fact. Writes are best-effort
// from the engine; a failing archive never affects a search response.
package archive

import "context"

// Entry describes one stored payload.
type Entry struct {
	Link        string `json:"link"`
	Hash        string `json:"hash"`
	ContentType string `json:"contentType"`
	Bytes       int    `json:"bytes"`
}

// Store persists payloads under hierarchical keys such as
// searches/<id>/<adapter>.json.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (Entry, error)
	Close() error
}

// NoOp discards every payload.
type NoOp struct{}

func (NoOp) Put(_ context.Context, key, contentType string, data []byte) (Entry, error) {
	return Entry{ContentType: contentType, Bytes: len(data)}, nil
}

func (NoOp) Close() error { return nil }
