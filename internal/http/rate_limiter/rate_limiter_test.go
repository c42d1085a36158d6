package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_BurstThenDeny(t *testing.T) {
	l := New(1, 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "buckets are per client")
}

func TestLimiter_CleanupDropsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l := New(1, 3, 5*time.Minute)
	l.now = func() time.Time { return now }

	l.GetVisitor("a")
	now = now.Add(3 * time.Minute)
	l.GetVisitor("b")
	now = now.Add(3 * time.Minute)

	assert.Equal(t, 1, l.Cleanup())
	l.mu.Lock()
	_, hasA := l.visitors["a"]
	_, hasB := l.visitors["b"]
	l.mu.Unlock()
	assert.False(t, hasA)
	assert.True(t, hasB)
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, 1, time.Minute)
	assert.True(t, l.Allow("x"))
	assert.False(t, l.Allow("x"))
	l.Reset()
	assert.True(t, l.Allow("x"))
}
