package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance cache time deterministically.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestCache_GetSet(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("search", "k1")
	assert.False(t, ok)

	c.Set("search", "k1", "value", 0)
	v, ok := c.Get("search", "k1")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestCache_LazyExpiry(t *testing.T) {
	clock := newFakeClock()
	c := New(time.Minute)
	c.SetClock(clock.Now)

	c.Set("search", "k1", "value", 300*time.Second)

	clock.Advance(100 * time.Second)
	_, ok := c.Get("search", "k1")
	assert.True(t, ok, "entry alive at t=100s")

	clock.Advance(300 * time.Second)
	_, ok = c.Get("search", "k1")
	assert.False(t, ok, "entry expired at t=400s")

	// The expired entry was deleted on access
	stats := c.Stats()
	assert.Equal(t, 0, stats.Size)
}

func TestCache_ClearNamespace(t *testing.T) {
	c := New(time.Minute)
	c.Set("search", "a", 1, 0)
	c.Set("search", "b", 2, 0)
	c.Set("other", "c", 3, 0)

	n := c.Clear("search")
	assert.Equal(t, 2, n)

	_, ok := c.Get("other", "c")
	assert.True(t, ok, "other namespace untouched")

	n = c.Clear("")
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, c.Stats().Size)
}

func TestCache_CleanupExpired(t *testing.T) {
	clock := newFakeClock()
	c := New(time.Minute)
	c.SetClock(clock.Now)

	c.Set("search", "short", 1, time.Second)
	c.Set("search", "long", 2, time.Hour)

	clock.Advance(10 * time.Second)
	n := c.CleanupExpired()
	assert.Equal(t, 1, n)

	_, ok := c.Get("search", "long")
	assert.True(t, ok)
	_, ok = c.Get("search", "short")
	assert.False(t, ok)
}

func TestCache_Stats(t *testing.T) {
	c := New(time.Minute)
	c.Set("search", "k", "v", 0)

	c.Get("search", "k")
	c.Get("search", "k")
	c.Get("search", "missing")

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.InDelta(t, 66.7, stats.HitRate(), 0.1)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("search", "shared", n, 0)
				c.Get("search", "shared")
			}
		}(i)
	}
	wg.Wait()

	_, ok := c.Get("search", "shared")
	assert.True(t, ok)
}
