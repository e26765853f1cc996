package driven

import (
	"context"

	"github.com/custodia-labs/scour/internal/core/domain"
)

// KnowledgeStore persists embedded documents. Upsert is keyed on
// content hash: rows with a hash already present are updated in place,
// never duplicated.
type KnowledgeStore interface {
	// Upsert writes rows atomically (all-or-nothing per call) and
	// returns the number of rows written.
	Upsert(ctx context.Context, rows []domain.UpsertRow) (int, error)

	// GetByHash retrieves a stored row by content hash.
	// Returns domain.ErrNotFound when absent.
	GetByHash(ctx context.Context, hash string) (*domain.UpsertRow, error)

	// Count returns the number of stored rows.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
