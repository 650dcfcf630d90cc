package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLimiterWait(t *testing.T) {
	t.Parallel()

	// 10 RPS = one token every 100ms, burst 1: the first call is free, the
	// second waits roughly a full interval.
	l := New(Config{DefaultRPS: 10, DefaultBurst: 1}, nil)
	ctx := context.Background()

	if err := l.Wait(ctx, "https://patents.google.com/xhr/query"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := l.Wait(ctx, "https://patents.google.com/patent/US1/en"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if dur := time.Since(start); dur < 80*time.Millisecond {
		t.Errorf("expected ~100ms wait, got %v", dur)
	}
}

func TestLimiterHostsIndependent(t *testing.T) {
	t.Parallel()

	l := New(Config{DefaultRPS: 1, DefaultBurst: 1}, nil)
	ctx := context.Background()

	if err := l.Wait(ctx, "https://ppubs.uspto.gov/pubwebapp/"); err != nil {
		t.Fatal(err)
	}

	// A different host has its own bucket and is not blocked.
	start := time.Now()
	if err := l.Wait(ctx, "https://tsdrapi.uspto.gov/ts/cd/casestatus"); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > 10*time.Millisecond {
		t.Error("second host blocked unexpectedly")
	}
}

func TestLimiterUnlimitedWhenRPSZero(t *testing.T) {
	t.Parallel()

	l := New(Config{}, nil)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Wait(ctx, "https://example.com/"); err != nil {
			t.Fatal(err)
		}
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("unlimited limiter introduced delay")
	}
}

func TestLimiterObserverSeesDelay(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		host string
	)
	l := New(Config{DefaultRPS: 20, DefaultBurst: 1}, func(h string, d time.Duration) {
		mu.Lock()
		host = h
		mu.Unlock()
	})

	ctx := context.Background()
	_ = l.Wait(ctx, "https://ppubs.uspto.gov/a")
	_ = l.Wait(ctx, "https://ppubs.uspto.gov/b")

	mu.Lock()
	defer mu.Unlock()
	if host != "ppubs.uspto.gov" {
		t.Fatalf("expected observer to record the delayed host, got %q", host)
	}
}

func TestLimiterCancelledContext(t *testing.T) {
	t.Parallel()

	l := New(Config{DefaultRPS: 0.001, DefaultBurst: 1}, nil)
	ctx := context.Background()
	if err := l.Wait(ctx, "https://slow.example.com/"); err != nil {
		t.Fatal(err)
	}

	cancelCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(cancelCtx, "https://slow.example.com/"); err == nil {
		t.Fatal("expected error from cancelled wait")
	}
}
