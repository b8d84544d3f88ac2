package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*TTLCache[string], *time.Time) {
	c := New[string](time.Hour)
	t.Cleanup(c.Stop)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestTTLCache_SetGet(t *testing.T) {
	c, now := newTestCache(t)

	c.Set("U1", "小明", time.Minute)
	v, ok := c.Get("U1")
	require.True(t, ok)
	assert.Equal(t, "小明", v)

	*now = now.Add(2 * time.Minute)
	_, ok = c.Get("U1")
	assert.False(t, ok)
}

func TestTTLCache_SetIfAbsent(t *testing.T) {
	c, now := newTestCache(t)

	assert.True(t, c.SetIfAbsent("evt-1", "1", time.Minute))
	assert.False(t, c.SetIfAbsent("evt-1", "2", time.Minute))

	v, _ := c.Get("evt-1")
	assert.Equal(t, "1", v)

	*now = now.Add(time.Hour)
	assert.True(t, c.SetIfAbsent("evt-1", "3", time.Minute))
}

func TestTTLCache_GetOrSet(t *testing.T) {
	c, _ := newTestCache(t)

	calls := 0
	compute := func() (string, error) {
		calls++
		return "value", nil
	}

	v, err := c.GetOrSet("k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = c.GetOrSet("k", time.Minute, compute)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 1, calls)

	_, err = c.GetOrSet("bad", time.Minute, func() (string, error) { return "", errors.New("lookup failed") })
	assert.Error(t, err)
	_, ok := c.Get("bad")
	assert.False(t, ok)
}

func TestTTLCache_DeleteClearSize(t *testing.T) {
	c, _ := newTestCache(t)

	c.Set("a", "1", time.Minute)
	c.Set("b", "2", time.Minute)
	assert.Equal(t, 2, c.Size())

	c.Delete("a")
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestTTLCache_RemoveExpired(t *testing.T) {
	c, now := newTestCache(t)

	c.Set("short", "1", time.Second)
	c.Set("long", "2", time.Hour)
	*now = now.Add(time.Minute)

	c.removeExpired()
	assert.Equal(t, 1, c.Size())
}

func TestTTLCache_Concurrent(t *testing.T) {
	c := New[int](time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("k", i, time.Minute)
			c.Get("k")
		}(i)
	}
	wg.Wait()
	c.Stop()
}
