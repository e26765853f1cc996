package domain

// SearchOptions configures a smart search call.
type SearchOptions struct {
	// Context steers source selection. ContextAuto classifies the
	// query by keywords; empty is treated as ContextAll.
	Context QueryContext

	// Source restricts the search to a single provider. When set, only
	// that adapter runs and results are returned in the provider's
	// native order with no ranking merge.
	Source SourceType

	// MaxResults caps the number of results returned (default 5).
	MaxResults int
}

// SearchResult is a ranked, response-level view of a Document. It is
// recomputed on every search call and carries no independent lifecycle.
type SearchResult struct {
	// Source is the provenance tag of the underlying document.
	Source SourceType `json:"source"`

	// Title is the HTML-unescaped result title.
	Title string `json:"title"`

	// URL is the canonical result location.
	URL string `json:"url"`

	// Score is the computed ranking score (single-source mode reports
	// the provider score unchanged).
	Score float64 `json:"score"`
}

// SearchMetadata summarises how a search executed.
type SearchMetadata struct {
	// Query is the search query as executed.
	Query string `json:"query"`

	// Context is the resolved query context.
	Context QueryContext `json:"context"`

	// AutoDetected reports whether Context came from classification
	// rather than the caller.
	AutoDetected bool `json:"auto_detected"`

	// SourcesSearched lists the providers that contributed results.
	SourcesSearched []SourceType `json:"sources_searched"`

	// ResultsBySource counts collected results per provider.
	ResultsBySource map[SourceType]int `json:"results_by_source"`

	// TotalCollected is the merged pool size before dedup and ranking.
	TotalCollected int `json:"total_collected"`

	// ElapsedMS is the wall-clock search duration in milliseconds.
	ElapsedMS float64 `json:"total_time_ms"`
}

// SearchResponse is the well-formed payload returned to every caller.
// "No results" and "search failed" are distinguished by the Error
// field, never by an exception crossing the boundary.
type SearchResponse struct {
	Results      []SearchResult  `json:"results"`
	TotalResults int             `json:"total_results"`
	Message      string          `json:"message"`
	Error        string          `json:"error,omitempty"`
	Metadata     *SearchMetadata `json:"metadata,omitempty"`
}

// Failed reports whether the search failed outright (as opposed to
// succeeding with zero results).
func (r *SearchResponse) Failed() bool {
	return r.Error != ""
}
