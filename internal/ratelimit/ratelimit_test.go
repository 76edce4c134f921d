package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewLimiter(3, time.Minute)

	for i := range 3 {
		assert.True(t, l.Allow("caller"), "request %d should pass", i)
	}
	assert.False(t, l.Allow("caller"))
}

func TestKeysAreIndependent(t *testing.T) {
	l := NewLimiter(1, time.Minute)

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func TestWindowResets(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("caller"))
	assert.False(t, l.Allow("caller"))

	now = now.Add(time.Minute)
	assert.True(t, l.Allow("caller"))
	assert.False(t, l.Allow("caller"))
}

func TestExpiredEntriesAreReaped(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(3 * time.Minute)

	// A window reset for any key sweeps long-dead entries.
	l.Allow("fresh")

	l.mu.Lock()
	_, oldExists := l.entries["old"]
	l.mu.Unlock()
	assert.False(t, oldExists)
}
