package port

import "reposage/internal/domain"

// Chunker splits normalized text into overlapping, size-bounded segments.
// The source path selects the boundary patterns (code versus prose).
// dropped counts split segments discarded for being under the minimum
// chunk size.
type Chunker interface {
	Chunk(text, sourcePath string) (chunks []domain.Chunk, dropped int)
}
