package domain

// UpsertRow is a single row prepared for the knowledge store. Rows are
// keyed on ContentHash so re-submitting identical content is a no-op.
type UpsertRow struct {
	Content     string
	ContentHash string
	Embedding   []float32
	SourceType  SourceType
	SourceURL   string
	Title       string
	Metadata    map[string]any
}

// UpsertRef identifies a row that was (or would be) written.
type UpsertRef struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	ContentHash string `json:"content_hash,omitempty"`
}

// UpsertResult reports the outcome of an upsert call.
type UpsertResult struct {
	Results []UpsertRef `json:"results"`
	Message string      `json:"message"`
}
