// Package cached wraps a source adapter with a TTL result cache so
// repeated identical searches are served without hitting the upstream
// provider.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/custodia-labs/scour/internal/core/domain"
	"github.com/custodia-labs/scour/internal/core/ports/driven"
	"github.com/custodia-labs/scour/internal/logger"
)

const cacheNamespace = "search"

// Adapter decorates a SourceAdapter with result caching.
type Adapter struct {
	inner driven.SourceAdapter
	cache driven.ResultCache
	ttl   time.Duration
}

// New wraps inner with cache. A non-positive ttl falls back to the
// cache package default of five minutes.
func New(inner driven.SourceAdapter, cache driven.ResultCache, ttl time.Duration) *Adapter {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Adapter{inner: inner, cache: cache, ttl: ttl}
}

// Type reports the wrapped adapter's source type.
func (a *Adapter) Type() domain.SourceType {
	return a.inner.Type()
}

// Search returns cached results when a fresh entry exists, otherwise
// delegates to the wrapped adapter and caches its successful response.
// Errors are never cached.
func (a *Adapter) Search(ctx context.Context, query string, maxResults int) ([]domain.Document, error) {
	key := cacheKey(a.inner.Type(), query, maxResults)
	if v, ok := a.cache.Get(cacheNamespace, key); ok {
		if docs, ok := v.([]domain.Document); ok {
			logger.Debug("cache hit source=%s query=%q", a.inner.Type(), query)
			return docs, nil
		}
	}

	docs, err := a.inner.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	a.cache.Set(cacheNamespace, key, docs, a.ttl)
	return docs, nil
}

func cacheKey(source domain.SourceType, query string, maxResults int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", source, query, maxResults)))
	return hex.EncodeToString(sum[:])
}
