// Package memory contains an in-memory event publisher for tests and the
// one-shot CLI commands.
package memory

import (
	"context"
	"sync"

	"github.com/harborlight/ipsearch/internal/events"
)

// Publisher stores published events for inspection.
type Publisher struct {
	mu     sync.RWMutex
	events []events.SearchEvent
}

// New returns a memory Publisher.
func New() *Publisher {
	return &Publisher{}
}

// Publish records the event.
func (p *Publisher) Publish(_ context.Context, event events.SearchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns the recorded publishes.
func (p *Publisher) Events() []events.SearchEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]events.SearchEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Close is a no-op.
func (p *Publisher) Close() error { return nil }
