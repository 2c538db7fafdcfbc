package port

import (
	"context"

	"reposage/internal/domain"
)

// Point is a vector plus its payload, keyed by a deterministic id.
type Point struct {
	ID      uint64
	Vector  []float32
	Payload domain.ChunkPayload
}

// SearchParams describes a nearest-neighbour query. An empty RepoLabel
// means no filter; otherwise results are restricted to payloads whose
// repoLabel matches exactly.
type SearchParams struct {
	Vector    []float32
	Limit     int
	RepoLabel string
}

// VectorStore stores and searches embedding vectors in named collections.
// Search responses carry payloads only, never vectors.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist.
	// Idempotent: an "already exists" outcome is not an error.
	EnsureCollection(ctx context.Context, name string, dimension int) error

	// EnsureKeywordIndex creates an equality-filterable keyword index on
	// the given payload field. Idempotent like EnsureCollection.
	EnsureKeywordIndex(ctx context.Context, name, field string) error

	// Upsert adds or overwrites points by id.
	Upsert(ctx context.Context, name string, points []Point) error

	// Search returns the nearest points by cosine similarity, best first.
	Search(ctx context.Context, name string, params SearchParams) ([]domain.ScoredChunk, error)

	// Count returns the number of points in the collection.
	Count(ctx context.Context, name string) (int, error)
}
