// Package humanize supplies the randomized timing policy adapters consult
// between browser and network actions. Automated sessions that type and click
// at machine speed get flagged and banned; drawing every delay from
// human-plausible windows keeps the acquisition surfaces usable.
package humanize

import (
	"context"
	"math/rand"
	"time"
)

// Fixed throttling intervals. These are deliberate pacing, not backoff:
// EnrichDelay separates sequential detail fetches, BatchPause separates
// bulk-crawl batches.
const (
	EnrichDelay = 500 * time.Millisecond
	BatchPause  = time.Second
)

// Config bounds the randomized windows. Zero values take the defaults below.
type Config struct {
	TypeDelayMin time.Duration `mapstructure:"type_delay_min"`
	TypeDelayMax time.Duration `mapstructure:"type_delay_max"`
	PauseMin     time.Duration `mapstructure:"pause_min"`
	PauseMax     time.Duration `mapstructure:"pause_max"`
}

func (c *Config) applyDefaults() {
	if c.TypeDelayMin <= 0 {
		c.TypeDelayMin = 50 * time.Millisecond
	}
	if c.TypeDelayMax <= c.TypeDelayMin {
		c.TypeDelayMax = 150 * time.Millisecond
	}
	if c.PauseMin <= 0 {
		c.PauseMin = 500 * time.Millisecond
	}
	if c.PauseMax <= c.PauseMin {
		c.PauseMax = 5 * time.Second
	}
}

// Humanizer draws randomized delays. Safe for concurrent use; the randomness
// source is injectable for deterministic tests.
type Humanizer struct {
	cfg  Config
	rand func(n int64) int64
}

// New builds a Humanizer with defaulted bounds.
func New(cfg Config) *Humanizer {
	cfg.applyDefaults()
	return &Humanizer{cfg: cfg, rand: rand.Int63n}
}

// TypeDelay returns the pause before the next keystroke, uniform in
// [TypeDelayMin, TypeDelayMax).
func (h *Humanizer) TypeDelay() time.Duration {
	return h.between(h.cfg.TypeDelayMin, h.cfg.TypeDelayMax)
}

// Phase pauses split [PauseMin, PauseMax) into thirds so every draw stays
// inside the configured window whatever the bounds are.

// ShortPause covers quick transitions: focusing a field, moving to a button.
func (h *Humanizer) ShortPause() time.Duration {
	span := h.cfg.PauseMax - h.cfg.PauseMin
	return h.between(h.cfg.PauseMin, h.cfg.PauseMin+span/3)
}

// MediumPause covers reading-a-page moments: after navigation, before submit.
func (h *Humanizer) MediumPause() time.Duration {
	span := h.cfg.PauseMax - h.cfg.PauseMin
	return h.between(h.cfg.PauseMin+span/3, h.cfg.PauseMin+2*span/3)
}

// LongPause covers settling after heavy page loads.
func (h *Humanizer) LongPause() time.Duration {
	span := h.cfg.PauseMax - h.cfg.PauseMin
	return h.between(h.cfg.PauseMin+2*span/3, h.cfg.PauseMax)
}

func (h *Humanizer) between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(h.rand(int64(hi-lo)))
}

// Sleep blocks for the given delay or until the context ends.
func (h *Humanizer) Sleep(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
