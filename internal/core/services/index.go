package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/scour/internal/core/domain"
	"github.com/custodia-labs/scour/internal/core/ports/driven"
	"github.com/custodia-labs/scour/internal/core/ports/driving"
	"github.com/custodia-labs/scour/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService embeds documents and persists them to the knowledge
// store, keyed on content hash.
type IndexService struct {
	embedder driven.EmbeddingService
	store    driven.KnowledgeStore
}

// NewIndexService creates an index service. Both dependencies are
// required for real upserts; dry runs work without them.
func NewIndexService(embedder driven.EmbeddingService, store driven.KnowledgeStore) *IndexService {
	return &IndexService{embedder: embedder, store: store}
}

// Upsert embeds the documents and writes them to the store. Embedding
// is all-or-nothing: a batch failure aborts the call and nothing is
// written.
func (s *IndexService) Upsert(
	ctx context.Context, docs []domain.Document, dryRun bool,
) (*domain.UpsertResult, error) {
	if len(docs) == 0 {
		return &domain.UpsertResult{
			Results: []domain.UpsertRef{},
			Message: "no documents to upsert",
		}, nil
	}

	refs := make([]domain.UpsertRef, 0, len(docs))
	for _, doc := range docs {
		refs = append(refs, domain.UpsertRef{
			Title:       doc.Title,
			URL:         doc.SourceURL,
			ContentHash: doc.ContentHash(),
		})
	}

	if dryRun {
		return &domain.UpsertResult{
			Results: refs,
			Message: fmt.Sprintf("[dry run] would upsert %d documents", len(refs)),
		}, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return nil, fmt.Errorf("embed documents: got %d vectors for %d documents", len(embeddings), len(docs))
	}

	rows := make([]domain.UpsertRow, len(docs))
	for i, doc := range docs {
		rows[i] = domain.UpsertRow{
			Content:     doc.Content,
			ContentHash: refs[i].ContentHash,
			Embedding:   embeddings[i],
			SourceType:  doc.SourceType,
			SourceURL:   doc.SourceURL,
			Title:       doc.Title,
			Metadata:    doc.Metadata,
		}
	}

	written, err := s.store.Upsert(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("store documents: %w", err)
	}

	logger.Debug("upserted %d documents (%d rows written)", len(docs), written)
	return &domain.UpsertResult{
		Results: refs,
		Message: fmt.Sprintf("upserted %d documents", written),
	}, nil
}
