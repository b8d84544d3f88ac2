package ratelimiter

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T) (*Limiter, *time.Time) {
	rl := New()
	t.Cleanup(rl.Stop)
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestLimiter_Allow(t *testing.T) {
	rl, now := newTestLimiter(t)
	rl.SetPolicy("turn", 3, time.Minute)

	assert.True(t, rl.Allow("turn", "U1"))
	assert.True(t, rl.Allow("turn", "U1"))
	assert.True(t, rl.Allow("turn", "U1"))
	assert.False(t, rl.Allow("turn", "U1"))

	// other keys are independent
	assert.True(t, rl.Allow("turn", "U2"))

	*now = now.Add(61 * time.Second)
	assert.True(t, rl.Allow("turn", "U1"))
}

func TestLimiter_MissingPolicyDenies(t *testing.T) {
	rl, _ := newTestLimiter(t)
	assert.False(t, rl.Allow("unknown", "U1"))
	assert.Equal(t, time.Duration(0), rl.RetryAfter("unknown", "U1"))
}

func TestLimiter_RetryAfter(t *testing.T) {
	rl, now := newTestLimiter(t)
	rl.SetPolicy("notify", 1, time.Minute)

	assert.Equal(t, time.Duration(0), rl.RetryAfter("notify", "owner"))
	assert.True(t, rl.Allow("notify", "owner"))

	*now = now.Add(20 * time.Second)
	assert.Equal(t, 40*time.Second, rl.RetryAfter("notify", "owner"))
}

func TestLimiter_Reset(t *testing.T) {
	rl, _ := newTestLimiter(t)
	rl.SetPolicy("turn", 1, time.Minute)

	assert.True(t, rl.Allow("turn", "U1"))
	assert.False(t, rl.Allow("turn", "U1"))
	rl.Reset("turn", "U1")
	assert.True(t, rl.Allow("turn", "U1"))
}

func TestLimiter_Sweep(t *testing.T) {
	rl, now := newTestLimiter(t)
	rl.SetPolicy("turn", 5, time.Minute)

	rl.Allow("turn", "U1")
	*now = now.Add(2 * time.Minute)
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.events)
}

func TestLimiter_Concurrent(t *testing.T) {
	rl := New()
	defer rl.Stop()
	rl.SetPolicy("turn", 10, time.Minute)

	var allowed int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("turn", "U1") {
				atomic.AddInt32(&allowed, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(10), allowed)
}
