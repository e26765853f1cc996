package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedSource indicates an unknown source type.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Persistence of search results is disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable indicates the knowledge store is not
	// configured.
	ErrStoreUnavailable = errors.New("knowledge store unavailable")

	// ErrNoSources indicates no source adapter was registered for the
	// requested search.
	ErrNoSources = errors.New("no source adapters configured")
)
