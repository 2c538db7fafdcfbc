package port

import "context"

// Embedder maps text to a fixed-length vector via an external embedding
// model. No retries are performed; a provider failure surfaces to the
// caller as a per-chunk or per-query failure.
type Embedder interface {
	// Embed generates the embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
