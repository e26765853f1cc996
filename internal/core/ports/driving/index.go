package driving

import (
	"context"

	"github.com/custodia-labs/scour/internal/core/domain"
)

// IndexService is the inbound port for embedding and persisting
// documents into the knowledge store.
type IndexService interface {
	// Upsert embeds the documents and writes them keyed by content
	// hash. With dryRun it short-circuits before any network call and
	// reports what would have been written.
	//
	// Embedding failure for the batch aborts the whole call; partial
	// success is not supported.
	Upsert(ctx context.Context, docs []domain.Document, dryRun bool) (*domain.UpsertResult, error)
}
