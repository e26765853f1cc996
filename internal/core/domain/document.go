package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Document is the normalised unit of retrieved knowledge.
// Adapters create one Document per provider result; documents are
// immutable once created. A re-fetch produces a new Document that may
// overwrite a stored row with the same content hash.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceType tags the provider that produced this document.
	SourceType SourceType

	// SourceURL is the canonical location of the result. Two documents
	// with the same URL are the same logical item; the orchestrator
	// deduplicates on it.
	SourceURL string

	// Title is the human-readable title, HTML-unescaped.
	Title string

	// Content is the full cleaned text body. HTML is stripped and, for
	// Q&A results, code blocks are removed for searchability.
	Content string

	// Metadata contains source-specific extras (tags, score, language,
	// stars, state). Opaque to the orchestrator except where explicitly
	// read for ranking.
	Metadata map[string]any

	// FetchedAt is when the adapter retrieved the result.
	FetchedAt time.Time
}

// ContentHash returns the stable SHA-256 hex digest of the raw content.
// Persistence is keyed on this hash so identical content is never
// stored twice.
func (d Document) ContentHash() string {
	sum := sha256.Sum256([]byte(d.Content))
	return hex.EncodeToString(sum[:])
}

// ProviderScore extracts the provider-assigned score from metadata.
// Returns 0 when the source reported none.
func (d Document) ProviderScore() float64 {
	v, ok := d.Metadata["score"]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
