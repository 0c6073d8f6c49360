// Package ratelimit implements the fixed-window request limiter (spec
// §4.9, C9), grounded on pkg/session/manager.go's mutex-guarded in-memory
// map — the teacher repo has no dedicated rate-limiter package of its own,
// so this adopts that package's map/RWMutex-per-store shape for a
// different key (identifier -> window entry instead of session ID ->
// session).
package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// RateLimitError reports that an identifier exceeded its limit within the
// current window.
type RateLimitError struct {
	Identifier string
	Limit      int
	WindowMs   int64
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %q: limit %d per %dms, retry after %ds", e.Identifier, e.Limit, e.WindowMs, e.RetryAfter)
}

type entry struct {
	count       int
	windowStart time.Time
}

// Limiter is a fixed-window counter keyed by an arbitrary identifier
// (typically a user ID or client IP). A single Limiter instance is meant
// to back one policy class; callers needing separate key spaces (spec's
// "general" and "workflow" policies) construct two Limiters.
type Limiter struct {
	enabled bool

	mu      sync.Mutex
	entries map[string]entry
}

// NewLimiter creates a Limiter. When enabled is false, Check is always a
// no-op success.
func NewLimiter(enabled bool) *Limiter {
	return &Limiter{enabled: enabled, entries: make(map[string]entry)}
}

// Check enforces that identifier has made at most limit calls within any
// window of length window. The first call in a fresh (or expired) window
// starts a new count at 1 and succeeds unconditionally.
func (l *Limiter) Check(identifier string, limit int, window time.Duration) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.gc(window)

	now := time.Now()
	e, ok := l.entries[identifier]
	if !ok || now.Sub(e.windowStart) >= window {
		l.entries[identifier] = entry{count: 1, windowStart: now}
		return nil
	}

	if e.count >= limit {
		age := now.Sub(e.windowStart)
		retryAfter := int(math.Ceil((window - age).Seconds()))
		if retryAfter < 0 {
			retryAfter = 0
		}
		return &RateLimitError{
			Identifier: identifier,
			Limit:      limit,
			WindowMs:   window.Milliseconds(),
			RetryAfter: retryAfter,
		}
	}

	e.count++
	l.entries[identifier] = e
	return nil
}

// gc prunes entries whose window has already expired. Called with mu held,
// from inside Check, so every check also does opportunistic cleanup
// without a separate background goroutine (spec §4.9).
func (l *Limiter) gc(window time.Duration) {
	now := time.Now()
	for id, e := range l.entries {
		if now.Sub(e.windowStart) >= window {
			delete(l.entries, id)
		}
	}
}
