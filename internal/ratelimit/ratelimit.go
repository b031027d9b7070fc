// Package ratelimit implements a sliding-window request counter. Unlike a
// token bucket, it permits bursts up to the limit at any instant within the
// window and smooths the effective rate over the window length.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits up to limit requests per trailing window. It is safe for
// concurrent use; the purge-check-append sequence runs under one lock so
// overlapping callers cannot over-admit.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	times  []time.Time

	// now is replaceable in tests to simulate the clock.
	now func() time.Time
}

// New creates a limiter admitting limit requests per window.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow reports whether a request may proceed, recording it when admitted.
// Denied calls are not recorded and so do not consume a slot. State is not
// persisted; a restart resets the window.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.times[:0]
	for _, t := range l.times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.times = kept

	if len(l.times) >= l.limit {
		return false
	}
	l.times = append(l.times, now)
	return true
}
