package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations are expected to handle provider batch limits and
// transient-error retry internally: EmbedBatch accepts any number of
// texts and either returns one vector per input, in input order, or an
// error for the whole call.
type EmbeddingService interface {
	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
