package driven

import "time"

// CacheStats reports cache effectiveness for monitoring.
type CacheStats struct {
	Size   int
	Hits   int64
	Misses int64
}

// HitRate returns the hit percentage across all lookups.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// ResultCache is a namespaced, TTL-based cache. Entries expire lazily
// on read; CleanupExpired is a separate explicit sweep whose cadence is
// the caller's decision. Implementations must be safe for concurrent
// use. The cache is process-local by design: it exists to avoid repeat
// external calls within a time window, not to serve as a system of
// record.
type ResultCache interface {
	// Get returns the cached value, or (nil, false) on a miss or an
	// expired entry. Expired entries are deleted on access.
	Get(namespace, key string) (any, bool)

	// Set stores a value. A non-positive ttl uses the cache default.
	Set(namespace, key string, value any, ttl time.Duration)

	// Delete removes a single entry, reporting whether it existed.
	Delete(namespace, key string) bool

	// Clear removes all entries in a namespace, or every entry when
	// namespace is empty. Returns the number removed.
	Clear(namespace string) int

	// CleanupExpired sweeps out expired entries and returns the count.
	CleanupExpired() int

	// Stats returns hit/miss/size counters.
	Stats() CacheStats
}
