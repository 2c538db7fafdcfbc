package usecase

import (
	"context"
	"fmt"

	"reposage/internal/port"
)

// SearchResult is one retrieved chunk with its similarity score.
type SearchResult struct {
	Score         float64 `json:"score"`
	SourcePath    string  `json:"sourcePath"`
	FileName      string  `json:"fileName"`
	FileExtension string  `json:"fileExtension"`
	RepoLabel     string  `json:"repoLabel"`
	ChunkIndex    int     `json:"chunkIndex"`
	TotalChunks   int     `json:"totalChunks"`
	StartChar     int     `json:"startChar"`
	EndChar       int     `json:"endChar"`
	ChunkText     string  `json:"chunkText"`
}

// SearchUseCase runs the retrieval half of the query path: embed the
// query, then rank stored chunks by cosine similarity.
type SearchUseCase struct {
	store      port.VectorStore
	embedder   port.Embedder
	collection string
}

func NewSearchUseCase(store port.VectorStore, embedder port.Embedder, collection string) *SearchUseCase {
	return &SearchUseCase{store: store, embedder: embedder, collection: collection}
}

// Search returns the limit most similar chunks to query. A non-empty
// repoLabel restricts results to that repository.
func (u *SearchUseCase) Search(ctx context.Context, query, repoLabel string, limit int) ([]SearchResult, error) {
	vector, err := u.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored, err := u.store.Search(ctx, u.collection, port.SearchParams{
		Vector:    vector,
		Limit:     limit,
		RepoLabel: repoLabel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search collection: %w", err)
	}

	results := make([]SearchResult, 0, len(scored))
	for _, s := range scored {
		results = append(results, SearchResult{
			Score:         s.Score,
			SourcePath:    s.Payload.SourcePath,
			FileName:      s.Payload.FileName,
			FileExtension: s.Payload.FileExtension,
			RepoLabel:     s.Payload.RepoLabel,
			ChunkIndex:    s.Payload.ChunkIndex,
			TotalChunks:   s.Payload.TotalChunks,
			StartChar:     s.Payload.StartChar,
			EndChar:       s.Payload.EndChar,
			ChunkText:     s.Payload.ChunkText,
		})
	}
	return results, nil
}
