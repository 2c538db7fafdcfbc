package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// Chunk is a bounded slice of a file's normalized text, the unit of
// embedding and retrieval. StartChar/EndChar are best-effort offsets into
// the normalized file text.
type Chunk struct {
	Text      string
	Index     int
	StartChar int
	EndChar   int
}

// ChunkPayload is the metadata stored alongside a chunk's vector.
// Immutable once written; re-ingesting the same file overwrites the same
// ids with equal values.
type ChunkPayload struct {
	SourcePath    string    `json:"sourcePath"`
	RepoLabel     string    `json:"repoLabel"`
	FileName      string    `json:"fileName"`
	FileExtension string    `json:"fileExtension"`
	ChunkIndex    int       `json:"chunkIndex"`
	StartChar     int       `json:"startChar"`
	EndChar       int       `json:"endChar"`
	ChunkText     string    `json:"chunkText"`
	TotalChunks   int       `json:"totalChunks"`
	FileSizeBytes int       `json:"fileSizeBytes"`
	ChunkSize     int       `json:"chunkSize"`
	IsNotebook    bool      `json:"isNotebook"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ScoredChunk is a retrieval hit: a payload with its similarity score.
type ScoredChunk struct {
	Score   float64
	Payload ChunkPayload
}

// IngestStats aggregates the counters of one ingestion run. Ingestion is
// a best-effort bulk job; per-file and per-chunk failures are counted
// here instead of aborting the run.
type IngestStats struct {
	FilesSeen       int
	ChunksProduced  int
	ChunksSucceeded int
	ChunksFailed    int
	ChunksDropped   int
}

// ChunkID derives the deterministic point id for a chunk: the first
// twelve hex digits of SHA-256("{sourcePath}_chunk_{index}") read as an
// integer. Stable across runs, so re-ingesting an unchanged file
// overwrites the same points.
func ChunkID(sourcePath string, index int) uint64 {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_chunk_%d", sourcePath, index)))
	digest := hex.EncodeToString(sum[:])
	id, _ := strconv.ParseUint(digest[:12], 16, 64)
	return id
}
