package services

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/scour/internal/core/domain"
	"github.com/custodia-labs/scour/internal/core/ports/driven"
	"github.com/custodia-labs/scour/internal/core/ports/driving"
	"github.com/custodia-labs/scour/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

const (
	// DefaultMaxResults is the result cap when the caller does not set
	// one.
	DefaultMaxResults = 5

	// DefaultSearchTimeout bounds a whole SmartSearch call.
	DefaultSearchTimeout = 20 * time.Second

	// DefaultUpsertTimeout bounds the background persistence of
	// results after the response has been returned.
	DefaultUpsertTimeout = 60 * time.Second

	// titleMatchWeight is the ranking weight of a query term appearing
	// in the result title.
	titleMatchWeight = 10.0

	// providerScoreScale divides provider vote/star scores so they tune
	// rather than dominate ranking.
	providerScoreScale = 100.0
)

// sourcePriority breaks ranking ties in favour of curated answers over
// code over reference pages.
var sourcePriority = map[domain.SourceType]float64{
	domain.SourceQASite:   3.0,
	domain.SourceCodeHost: 2.0,
	domain.SourceDocs:     1.0,
}

// SearchService orchestrates multi-source knowledge search.
type SearchService struct {
	adapters map[domain.SourceType]driven.SourceAdapter
	indexer  driving.IndexService

	timeout       time.Duration
	upsertTimeout time.Duration

	// upserts tracks background persistence goroutines so tests and
	// shutdown can wait for them.
	upserts sync.WaitGroup
}

// NewSearchService creates a search service over the given adapters.
// The indexer parameter is optional (can be nil); without it search
// results are not persisted.
func NewSearchService(adapters []driven.SourceAdapter, indexer driving.IndexService) *SearchService {
	byType := make(map[domain.SourceType]driven.SourceAdapter, len(adapters))
	for _, a := range adapters {
		byType[a.Type()] = a
	}
	return &SearchService{
		adapters:      byType,
		indexer:       indexer,
		timeout:       DefaultSearchTimeout,
		upsertTimeout: DefaultUpsertTimeout,
	}
}

// SetTimeout overrides the overall search deadline.
func (s *SearchService) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// SetUpsertTimeout overrides the background persistence deadline.
func (s *SearchService) SetUpsertTimeout(d time.Duration) {
	if d > 0 {
		s.upsertTimeout = d
	}
}

// WaitForUpserts blocks until all background persistence spawned by
// earlier searches has finished.
func (s *SearchService) WaitForUpserts() {
	s.upserts.Wait()
}

// SmartSearch fans the query out to the relevant adapters, merges,
// deduplicates and ranks the results. Source failures degrade the
// response rather than failing the call.
func (s *SearchService) SmartSearch(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	logger.Section("Smart Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return &domain.SearchResponse{
			Results: []domain.SearchResult{},
			Message: "empty query",
		}, nil
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	if opts.Source != "" && !opts.Source.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedSource, opts.Source)
	}

	queryCtx, autoDetected := s.resolveContext(query, opts.Context)
	logger.Debug("Context: %s (auto detected: %t)", queryCtx, autoDetected)

	searchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()

	var resp *domain.SearchResponse
	if opts.Source != "" {
		resp = s.searchSingle(searchCtx, query, opts.Source, maxResults)
	} else {
		resp = s.searchAll(searchCtx, query, queryCtx, maxResults)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if resp.Metadata != nil {
		resp.Metadata.Query = query
		resp.Metadata.Context = queryCtx
		resp.Metadata.AutoDetected = autoDetected
		resp.Metadata.ElapsedMS = float64(time.Since(started).Microseconds()) / 1000.0
	}
	return resp, nil
}

// resolveContext applies the auto-detection and default rules to the
// caller-supplied context.
func (s *SearchService) resolveContext(query string, c domain.QueryContext) (domain.QueryContext, bool) {
	switch c {
	case domain.ContextAuto:
		return domain.DetectContext(query), true
	case "":
		return domain.ContextAll, false
	}
	return c, false
}

// searchSingle runs exactly one adapter and returns its results in the
// provider's native order, provider scores unchanged.
func (s *SearchService) searchSingle(
	ctx context.Context, query string, source domain.SourceType, maxResults int,
) *domain.SearchResponse {
	meta := &domain.SearchMetadata{
		ResultsBySource: map[domain.SourceType]int{},
	}

	adapter, ok := s.adapters[source]
	if !ok {
		return &domain.SearchResponse{
			Results:  []domain.SearchResult{},
			Error:    fmt.Sprintf("source %q is not configured", source),
			Metadata: meta,
		}
	}

	docs, err := adapter.Search(ctx, query, maxResults)
	if err != nil {
		logger.Warn("source %s failed: %v", source, err)
		return &domain.SearchResponse{
			Results:  []domain.SearchResult{},
			Error:    fmt.Sprintf("source %q failed: %v", source, err),
			Metadata: meta,
		}
	}

	s.spawnUpsert(docs)

	results := make([]domain.SearchResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, domain.SearchResult{
			Source: doc.SourceType,
			Title:  html.UnescapeString(doc.Title),
			URL:    doc.SourceURL,
			Score:  doc.ProviderScore(),
		})
	}

	meta.SourcesSearched = []domain.SourceType{source}
	meta.ResultsBySource[source] = len(results)
	meta.TotalCollected = len(results)

	return &domain.SearchResponse{
		Results:      results,
		TotalResults: len(results),
		Message:      fmt.Sprintf("found %d results from %s", len(results), source),
		Metadata:     meta,
	}
}

// searchAll fans out to every adapter selected by the query context,
// then merges, deduplicates and ranks the collected documents.
func (s *SearchService) searchAll(
	ctx context.Context, query string, queryCtx domain.QueryContext, maxResults int,
) *domain.SearchResponse {
	meta := &domain.SearchMetadata{
		ResultsBySource: map[domain.SourceType]int{},
	}

	var sources []domain.SourceType
	for _, source := range queryCtx.SourcesFor() {
		if _, ok := s.adapters[source]; ok {
			sources = append(sources, source)
		}
	}
	if len(sources) == 0 {
		return &domain.SearchResponse{
			Results:  []domain.SearchResult{},
			Error:    domain.ErrNoSources.Error(),
			Metadata: meta,
		}
	}

	perSource := maxResults/3 + 1

	type partial struct {
		docs []domain.Document
		err  error
	}
	partials := make([]partial, len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, adapter driven.SourceAdapter) {
			defer wg.Done()
			docs, err := adapter.Search(ctx, query, perSource)
			partials[i] = partial{docs: docs, err: err}
		}(i, s.adapters[source])
	}
	wg.Wait()

	// Collect in source order so ranking ties resolve the same way on
	// every run.
	var collected []domain.Document
	var failures []string
	for i, source := range sources {
		if err := partials[i].err; err != nil {
			logger.Warn("source %s failed: %v", source, err)
			failures = append(failures, fmt.Sprintf("%s: %v", source, err))
			continue
		}
		meta.SourcesSearched = append(meta.SourcesSearched, source)
		meta.ResultsBySource[source] = len(partials[i].docs)
		collected = append(collected, partials[i].docs...)
	}
	meta.TotalCollected = len(collected)

	if len(failures) == len(sources) {
		return &domain.SearchResponse{
			Results:  []domain.SearchResult{},
			Error:    "all sources failed: " + strings.Join(failures, "; "),
			Metadata: meta,
		}
	}

	s.spawnUpsert(collected)

	ranked := mergeAndRank(collected, query)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	return &domain.SearchResponse{
		Results:      ranked,
		TotalResults: len(ranked),
		Message:      fmt.Sprintf("found %d results", len(ranked)),
		Metadata:     meta,
	}
}

// mergeAndRank deduplicates documents by URL (first occurrence wins)
// and sorts them by ranking score, descending. The sort is stable so
// equal scores keep collection order.
func mergeAndRank(docs []domain.Document, query string) []domain.SearchResult {
	seen := make(map[string]bool, len(docs))
	unique := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.SourceURL != "" {
			if seen[doc.SourceURL] {
				continue
			}
			seen[doc.SourceURL] = true
		}
		unique = append(unique, doc)
	}

	results := make([]domain.SearchResult, 0, len(unique))
	for _, doc := range unique {
		results = append(results, domain.SearchResult{
			Source: doc.SourceType,
			Title:  html.UnescapeString(doc.Title),
			URL:    doc.SourceURL,
			Score:  rankScore(doc, query),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// rankScore computes the merged ranking score: query terms found in the
// title dominate, scaled provider score and source priority tune the
// rest.
func rankScore(doc domain.Document, query string) float64 {
	title := strings.ToLower(doc.Title)

	var titleHits int
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(title, term) {
			titleHits++
		}
	}

	return float64(titleHits)*titleMatchWeight +
		doc.ProviderScore()/providerScoreScale +
		sourcePriority[doc.SourceType]
}

// spawnUpsert persists documents in the background. The search
// response never waits on embedding or storage; failures are logged
// and dropped.
func (s *SearchService) spawnUpsert(docs []domain.Document) {
	if s.indexer == nil || len(docs) == 0 {
		return
	}

	s.upserts.Add(1)
	go func() {
		defer s.upserts.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.upsertTimeout)
		defer cancel()

		if _, err := s.indexer.Upsert(ctx, docs, false); err != nil {
			logger.Warn("background upsert failed: %v", err)
		}
	}()
}
