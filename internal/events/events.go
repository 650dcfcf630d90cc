// Package events publishes search lifecycle events to interested consumers.
// Publishing is best-effort: the engine logs and drops failures.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SearchEvent describes one completed orchestrated search.
type SearchEvent struct {
	SearchID    string    `json:"searchId"`
	Kind        string    `json:"kind"`
	Query       string    `json:"query"`
	SourceUsed  string    `json:"sourceUsed"`
	RecordCount int       `json:"recordCount"`
	ElapsedMS   int64     `json:"elapsedMs"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher delivers search events.
type Publisher interface {
	Publish(ctx context.Context, event SearchEvent) error
	Close() error
}

// NoOp drops every event.
type NoOp struct{}

func (NoOp) Publish(context.Context, SearchEvent) error { return nil }

func (NoOp) Close() error { return nil }

// LogPublisher writes events to the service log.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher that logs each event.
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event SearchEvent) error {
	p.logger.Info("search event",
		zap.String("search_id", event.SearchID),
		zap.String("kind", event.Kind),
		zap.String("source_used", event.SourceUsed),
		zap.Int("record_count", event.RecordCount),
		zap.Int64("elapsed_ms", event.ElapsedMS))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Multi fans an event out to several publishers, returning the first error
// after attempting all of them.
type Multi struct {
	publishers []Publisher
}

// NewMulti creates a fanout publisher.
func NewMulti(publishers ...Publisher) *Multi {
	return &Multi{publishers: publishers}
}

func (m *Multi) Publish(ctx context.Context, event SearchEvent) error {
	var firstErr error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *Multi) Close() error {
	var firstErr error
	for _, p := range m.publishers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
