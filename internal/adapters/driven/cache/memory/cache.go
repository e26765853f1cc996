// Package memory provides an in-memory implementation of
// driven.ResultCache with per-entry TTLs and lazy expiry.
package memory

import (
	"sync"
	"time"

	"github.com/custodia-labs/scour/internal/core/ports/driven"
	"github.com/custodia-labs/scour/internal/logger"
)

// Ensure Cache implements the interface.
var _ driven.ResultCache = (*Cache)(nil)

// DefaultTTL is the entry lifetime used when Set receives a
// non-positive TTL.
const DefaultTTL = 5 * time.Minute

// entry wraps a cached value with its creation time and TTL. Entries
// are owned exclusively by the cache and replaced wholesale, never
// mutated.
type entry struct {
	value     any
	createdAt time.Time
	ttl       time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Cache is a namespaced TTL cache. Not durable: a process restart
// clears all entries, which is the accepted tradeoff for a cache that
// exists to deduplicate external calls within a session.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	hits       int64
	misses     int64

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a cache. A non-positive defaultTTL falls back to
// DefaultTTL.
func New(defaultTTL time.Duration) *Cache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func fullKey(namespace, key string) string {
	return namespace + ":" + key
}

// Get returns the cached value, deleting and missing on expired
// entries.
func (c *Cache) Get(namespace, key string) (any, bool) {
	fk := fullKey(namespace, key)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fk]
	if !ok {
		c.misses++
		return nil, false
	}
	if e.expired(c.now()) {
		delete(c.entries, fk)
		c.misses++
		logger.Debug("cache expired: %s", fk)
		return nil, false
	}

	c.hits++
	return e.value, true
}

// Set stores a value with the given TTL (cache default when
// non-positive).
func (c *Cache) Set(namespace, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fullKey(namespace, key)] = entry{
		value:     value,
		createdAt: c.now(),
		ttl:       ttl,
	}
}

// Delete removes a single entry.
func (c *Cache) Delete(namespace, key string) bool {
	fk := fullKey(namespace, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[fk]; !ok {
		return false
	}
	delete(c.entries, fk)
	return true
}

// Clear removes all entries in a namespace, or everything when
// namespace is empty.
func (c *Cache) Clear(namespace string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if namespace == "" {
		n := len(c.entries)
		c.entries = make(map[string]entry)
		logger.Info("cache cleared: %d entries", n)
		return n
	}

	prefix := namespace + ":"
	n := 0
	for k := range c.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.entries, k)
			n++
		}
	}
	logger.Info("cache namespace %q cleared: %d entries", namespace, n)
	return n
}

// CleanupExpired sweeps out expired entries. It is never invoked
// automatically; the caller decides the cadence.
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := 0
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
			n++
		}
	}
	if n > 0 {
		logger.Debug("cache cleanup removed %d expired entries", n)
	}
	return n
}

// Stats returns hit/miss/size counters.
func (c *Cache) Stats() driven.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return driven.CacheStats{
		Size:   len(c.entries),
		Hits:   c.hits,
		Misses: c.misses,
	}
}

// SetClock overrides the cache's time source. Tests only.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
