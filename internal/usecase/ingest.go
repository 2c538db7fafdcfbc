package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reposage/internal/adapter/extract"
	"reposage/internal/adapter/text"
	"reposage/internal/domain"
	"reposage/internal/port"
)

// keywordField is the payload field indexed for equality filtering
// across repositories sharing one collection.
const keywordField = "repoLabel"

// IngestUseCase runs the write path: walk, extract, normalize, chunk,
// embed, upsert. Processing is strictly sequential; every embedding call
// waits out the throttle first to respect provider rate limits.
type IngestUseCase struct {
	store      port.VectorStore
	embedder   port.Embedder
	walker     port.FileWalker
	chunker    port.Chunker
	collection string
	throttle   time.Duration
}

// NewIngestUseCase creates a new ingest use case. throttle is the fixed
// delay imposed before each embedding call; tests pass zero.
func NewIngestUseCase(
	store port.VectorStore,
	embedder port.Embedder,
	walker port.FileWalker,
	chunker port.Chunker,
	collection string,
	throttle time.Duration,
) *IngestUseCase {
	return &IngestUseCase{
		store:      store,
		embedder:   embedder,
		walker:     walker,
		chunker:    chunker,
		collection: collection,
		throttle:   throttle,
	}
}

// ProgressFunc reports ingestion progress after each processed file.
type ProgressFunc func(processed, total int, currentFile string)

// Ingest indexes every eligible file under root into the collection,
// labeled with repoLabel. Per-file and per-chunk failures are counted
// and never abort the run.
func (u *IngestUseCase) Ingest(ctx context.Context, repoLabel, root string, onProgress ProgressFunc) (*domain.IngestStats, error) {
	if err := u.store.EnsureCollection(ctx, u.collection, u.embedder.Dimension()); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}
	if err := u.store.EnsureKeywordIndex(ctx, u.collection, keywordField); err != nil {
		return nil, fmt.Errorf("failed to ensure keyword index: %w", err)
	}

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	stats := &domain.IngestStats{FilesSeen: len(files)}

	for i, file := range files {
		u.ingestFile(ctx, repoLabel, file, stats)
		if onProgress != nil {
			onProgress(i+1, len(files), file.Path)
		}
	}

	return stats, nil
}

func (u *IngestUseCase) ingestFile(ctx context.Context, repoLabel string, file port.FileInfo, stats *domain.IngestStats) {
	raw, err := os.ReadFile(file.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", file.Path, err)
		stats.ChunksFailed++
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Path))
	isNotebook := ext == ".ipynb"

	content := string(raw)
	if isNotebook {
		content, err = extract.Notebook(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to extract notebook %s: %v\n", file.Path, err)
			stats.ChunksFailed++
			return
		}
	}

	normalized, ok := text.Normalize(content)
	if !ok {
		// Out-of-bounds length is a filtering decision, not an error.
		return
	}

	chunks, dropped := u.chunker.Chunk(normalized, file.Path)
	stats.ChunksDropped += dropped
	stats.ChunksProduced += len(chunks)
	if len(chunks) == 0 {
		return
	}

	for _, chunk := range chunks {
		chunkText, ok := text.Normalize(chunk.Text)
		if !ok {
			continue
		}

		if err := u.wait(ctx); err != nil {
			stats.ChunksFailed++
			return
		}

		vector, err := u.embedder.Embed(ctx, chunkText)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to embed chunk %d of %s: %v\n", chunk.Index, file.Path, err)
			stats.ChunksFailed++
			continue
		}
		if len(vector) == 0 {
			fmt.Fprintf(os.Stderr, "empty vector for chunk %d of %s\n", chunk.Index, file.Path)
			stats.ChunksFailed++
			continue
		}

		point := port.Point{
			ID:     domain.ChunkID(file.Path, chunk.Index),
			Vector: vector,
			Payload: domain.ChunkPayload{
				SourcePath:    file.Path,
				RepoLabel:     repoLabel,
				FileName:      filepath.Base(file.Path),
				FileExtension: ext,
				ChunkIndex:    chunk.Index,
				StartChar:     chunk.StartChar,
				EndChar:       chunk.EndChar,
				ChunkText:     chunkText,
				TotalChunks:   len(chunks),
				FileSizeBytes: len(raw),
				ChunkSize:     len(chunkText),
				IsNotebook:    isNotebook,
				CreatedAt:     time.Now().UTC(),
			},
		}

		if err := u.store.Upsert(ctx, u.collection, []port.Point{point}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to upsert chunk %d of %s: %v\n", chunk.Index, file.Path, err)
			stats.ChunksFailed++
			continue
		}
		stats.ChunksSucceeded++
	}
}

// wait sleeps for the configured throttle, or returns early when the
// context is cancelled.
func (u *IngestUseCase) wait(ctx context.Context) error {
	if u.throttle <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(u.throttle)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
