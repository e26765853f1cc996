// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/custodia-labs/scour/internal/core/domain"
)

// SearchService is the inbound port for multi-source knowledge search.
type SearchService interface {
	// SmartSearch fans the query out to the relevant source adapters,
	// merges, deduplicates and ranks the results.
	//
	// The returned response is always well-formed: partial or total
	// source failure is reported through SearchResponse.Error, not
	// through the error return. A non-nil error indicates invalid
	// input or caller cancellation only.
	SmartSearch(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResponse, error)
}
