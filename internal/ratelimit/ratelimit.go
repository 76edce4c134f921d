// Package ratelimit implements the fixed-window request counter applied to
// the API surface. Windows are tracked independently per caller; no ordering
// is guaranteed between concurrent callers and none is needed.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a fixed-window counter keyed by caller identifier.
type Limiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	entries map[string]*windowEntry

	// now is swappable for tests.
	now func() time.Time
}

type windowEntry struct {
	windowStart time.Time
	count       int
}

// NewLimiter creates a limiter allowing limit requests per window for each
// distinct key.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it fits in the
// current window. The first request after a window expires resets the
// counter; expired entries for other keys are reaped opportunistically to
// bound memory.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.Sub(entry.windowStart) >= l.window {
		l.entries[key] = &windowEntry{windowStart: now, count: 1}
		l.reapLocked(now)
		return true
	}

	if entry.count >= l.limit {
		return false
	}

	entry.count++
	return true
}

// reapLocked drops entries whose window has long passed. Called with l.mu
// held, on the window-reset path only, so steady-state requests never pay
// for a full map sweep.
func (l *Limiter) reapLocked(now time.Time) {
	for key, entry := range l.entries {
		if now.Sub(entry.windowStart) >= 2*l.window {
			delete(l.entries, key)
		}
	}
}
