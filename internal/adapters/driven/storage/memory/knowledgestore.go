// Package memory provides an in-memory knowledge store, used when no
// database path is configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/scour/internal/core/domain"
	"github.com/custodia-labs/scour/internal/core/ports/driven"
)

// Ensure KnowledgeStore implements the interface.
var _ driven.KnowledgeStore = (*KnowledgeStore)(nil)

// KnowledgeStore is an in-memory implementation of
// driven.KnowledgeStore, keyed on content hash.
type KnowledgeStore struct {
	mu   sync.RWMutex
	rows map[string]domain.UpsertRow
}

// NewKnowledgeStore creates a new in-memory knowledge store.
func NewKnowledgeStore() *KnowledgeStore {
	return &KnowledgeStore{
		rows: make(map[string]domain.UpsertRow),
	}
}

// Upsert stores or updates rows by content hash.
func (s *KnowledgeStore) Upsert(_ context.Context, rows []domain.UpsertRow) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.rows[row.ContentHash] = row
	}
	return len(rows), nil
}

// GetByHash retrieves a row by content hash.
func (s *KnowledgeStore) GetByHash(_ context.Context, hash string) (*domain.UpsertRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[hash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

// Count returns the number of stored rows.
func (s *KnowledgeStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows), nil
}

// Close releases resources.
func (s *KnowledgeStore) Close() error {
	return nil
}
