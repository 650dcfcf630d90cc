// Package source defines the capability contract every acquisition adapter
// implements and the per-attempt outcome the orchestrator records. Adapters
// are interchangeable strategies: the orchestrator walks them in priority
// order and neither knows nor cares how each one acquires its records.
package source

import (
	"context"
	"time"

	"github.com/harborlight/ipsearch/internal/records"
)

// Source is one acquisition strategy. Search returns the adapter's native
// results as a tagged raw batch; an error means the attempt failed and the
// orchestrator should move on. Implementations must not retry internally and
// must release every resource they acquire on all exit paths.
type Source interface {
	Name() string
	Search(ctx context.Context, q records.SearchQuery) (records.Raw, error)
}

// Outcome describes one adapter attempt. Used for orchestration decisions,
// logs, and metrics; never persisted as record data.
type Outcome struct {
	Adapter string        `json:"adapter"`
	Success bool          `json:"success"`
	Records int           `json:"records"`
	Elapsed time.Duration `json:"elapsed"`
	Err     string        `json:"error,omitempty"`
}
