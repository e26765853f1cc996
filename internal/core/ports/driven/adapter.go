// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/custodia-labs/scour/internal/core/domain"
)

// SourceAdapter translates one external provider's query/response shape
// into normalised Documents. Each adapter owns a process-global bounded
// concurrency gate sized to the provider's published rate limits, so one
// slow source cannot starve another's capacity.
//
// Adapters return an error on provider-level failure (HTTP error,
// malformed payload); the orchestrator isolates those failures and
// degrades to an empty result set for that source.
type SourceAdapter interface {
	// Type returns the provenance tag stamped on every Document this
	// adapter produces.
	Type() domain.SourceType

	// Search queries the provider and returns up to maxResults
	// normalised documents.
	Search(ctx context.Context, query string, maxResults int) ([]domain.Document, error)
}
