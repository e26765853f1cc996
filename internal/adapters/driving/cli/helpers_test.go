package cli

import (
	"context"

	"github.com/custodia-labs/scour/internal/adapters/driven/cache/memory"
	configfile "github.com/custodia-labs/scour/internal/adapters/driven/config/file"
	storagememory "github.com/custodia-labs/scour/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scour/internal/core/domain"
	"github.com/custodia-labs/scour/internal/core/ports/driven"
)

type stubSearchService struct {
	resp     *domain.SearchResponse
	err      error
	lastOpts domain.SearchOptions
}

func (s *stubSearchService) SmartSearch(_ context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error) {
	s.lastOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	if s.resp != nil {
		return s.resp, nil
	}
	return &domain.SearchResponse{
		Results: []domain.SearchResult{
			{Source: domain.SourceQASite, Title: "How to test things", URL: "https://example.com/q/1", Score: 12.5},
		},
		TotalResults: 1,
		Message:      "Found 1 results",
		Metadata: &domain.SearchMetadata{
			Query:     query,
			Context:   domain.ContextAll,
			ElapsedMS: 3,
		},
	}, nil
}

func failedResponse(msg string) *domain.SearchResponse {
	return &domain.SearchResponse{
		Results: []domain.SearchResult{},
		Message: "Search failed",
		Error:   msg,
	}
}

type stubAdapter struct {
	source domain.SourceType
	docs   []domain.Document
}

func (a *stubAdapter) Type() domain.SourceType { return a.source }

func (a *stubAdapter) Search(_ context.Context, _ string, _ int) ([]domain.Document, error) {
	return a.docs, nil
}

// setupTestServices swaps the wired package vars for stubs so commands
// run without touching configuration files or the network. The returned
// cleanup restores the previous wiring.
func setupTestServices() func() {
	prevConfig := appConfig
	prevCache := resultCache
	prevAdapters := sourceAdapters
	prevSearch := searchService
	prevIndex := indexService
	prevStore := knowledgeStore

	appConfig = configfile.Default()
	resultCache = memory.New(0)
	sourceAdapters = []driven.SourceAdapter{
		&stubAdapter{
			source: domain.SourceQASite,
			docs: []domain.Document{
				{
					SourceType: domain.SourceQASite,
					SourceURL:  "https://example.com/q/1",
					Title:      "How to test things",
					Content:    "body",
				},
			},
		},
	}
	searchService = &stubSearchService{}
	indexService = nil
	knowledgeStore = storagememory.NewKnowledgeStore()

	return func() {
		appConfig = prevConfig
		resultCache = prevCache
		sourceAdapters = prevAdapters
		searchService = prevSearch
		indexService = prevIndex
		knowledgeStore = prevStore
	}
}
