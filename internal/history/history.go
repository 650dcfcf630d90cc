// Package history persists orchestrated search outcomes for later
// inspection. Saves are best-effort from the engine's point of view: a
// failing store never affects a search response.
package history

import (
	"context"
	"time"
)

// SearchRecord is one completed orchestrated search.
type SearchRecord struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Query       string    `json:"query"`
	SourceUsed  string    `json:"sourceUsed"`
	RecordCount int       `json:"recordCount"`
	ElapsedMS   int64     `json:"elapsedMs"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store persists and lists search records.
type Store interface {
	SaveSearch(ctx context.Context, rec SearchRecord) error
	RecentSearches(ctx context.Context, limit int) ([]SearchRecord, error)
	Close()
}

// NoOp discards every record.
type NoOp struct{}

func (NoOp) SaveSearch(context.Context, SearchRecord) error { return nil }

func (NoOp) RecentSearches(context.Context, int) ([]SearchRecord, error) { return nil, nil }

func (NoOp) Close() {}
