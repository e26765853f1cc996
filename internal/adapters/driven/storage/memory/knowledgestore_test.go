package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scour/internal/core/domain"
)

func TestUpsert_RoundTrip(t *testing.T) {
	store := NewKnowledgeStore()
	ctx := context.Background()

	written, err := store.Upsert(ctx, []domain.UpsertRow{
		{ContentHash: "h1", Title: "first", Content: "body", SourceType: domain.SourceDocs},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	got, err := store.GetByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
}

func TestUpsert_SameHashIsOneRow(t *testing.T) {
	store := NewKnowledgeStore()
	ctx := context.Background()

	_, err := store.Upsert(ctx, []domain.UpsertRow{{ContentHash: "h1", Title: "a"}})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, []domain.UpsertRow{{ContentHash: "h1", Title: "b"}})
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.GetByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)
}

func TestGetByHash_NotFound(t *testing.T) {
	store := NewKnowledgeStore()

	_, err := store.GetByHash(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentUpserts(t *testing.T) {
	store := NewKnowledgeStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			hash := string(rune('a' + n))
			_, _ = store.Upsert(ctx, []domain.UpsertRow{{ContentHash: hash}})
			_, _ = store.GetByHash(ctx, hash)
			_, _ = store.Count(ctx)
		}(i)
	}
	wg.Wait()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}
