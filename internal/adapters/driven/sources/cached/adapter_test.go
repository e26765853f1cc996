package cached

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scour/internal/adapters/driven/cache/memory"
	"github.com/custodia-labs/scour/internal/core/domain"
)

type countingAdapter struct {
	mu    sync.Mutex
	calls int
	docs  []domain.Document
	err   error
}

func (c *countingAdapter) Type() domain.SourceType { return domain.SourceQASite }

func (c *countingAdapter) Search(_ context.Context, _ string, _ int) ([]domain.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.docs, c.err
}

func (c *countingAdapter) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestSearch_CachesResults(t *testing.T) {
	inner := &countingAdapter{docs: []domain.Document{
		{ID: "1", SourceType: domain.SourceQASite, Title: "goroutine leak"},
	}}
	cache := memory.New(0)
	adapter := New(inner, cache, 5*time.Minute)

	first, err := adapter.Search(context.Background(), "goroutine leak", 5)
	require.NoError(t, err)
	second, err := adapter.Search(context.Background(), "goroutine leak", 5)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.callCount())
	assert.Equal(t, first, second)
}

func TestSearch_ExpiredEntryRefetches(t *testing.T) {
	now := time.Now()
	inner := &countingAdapter{docs: []domain.Document{{ID: "1"}}}
	cache := memory.New(0)
	cache.SetClock(func() time.Time { return now })
	adapter := New(inner, cache, 5*time.Minute)

	_, err := adapter.Search(context.Background(), "q", 5)
	require.NoError(t, err)

	now = now.Add(6 * time.Minute)
	_, err = adapter.Search(context.Background(), "q", 5)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.callCount())
}

func TestSearch_DistinctKeysPerQueryAndLimit(t *testing.T) {
	inner := &countingAdapter{docs: []domain.Document{{ID: "1"}}}
	adapter := New(inner, memory.New(0), 5*time.Minute)

	_, _ = adapter.Search(context.Background(), "q", 5)
	_, _ = adapter.Search(context.Background(), "q", 10)
	_, _ = adapter.Search(context.Background(), "other", 5)

	assert.Equal(t, 3, inner.callCount())
}

func TestSearch_ErrorNotCached(t *testing.T) {
	inner := &countingAdapter{err: errors.New("upstream down")}
	adapter := New(inner, memory.New(0), 5*time.Minute)

	_, err := adapter.Search(context.Background(), "q", 5)
	require.Error(t, err)
	_, err = adapter.Search(context.Background(), "q", 5)
	require.Error(t, err)

	assert.Equal(t, 2, inner.callCount())
}

func TestType_DelegatesToInner(t *testing.T) {
	adapter := New(&countingAdapter{}, memory.New(0), 0)
	assert.Equal(t, domain.SourceQASite, adapter.Type())
}
