package chunker

import (
	"path/filepath"
	"regexp"
	"strings"

	"reposage/internal/domain"
)

// codeExtensions select the code-oriented boundary patterns; everything
// else is chunked as prose.
var codeExtensions = map[string]bool{
	".js":   true,
	".ts":   true,
	".py":   true,
	".java": true,
	".cpp":  true,
	".c":    true,
	".cs":   true,
	".php":  true,
	".rb":   true,
	".go":   true,
	".rs":   true,
}

// Boundary patterns, in priority order. All candidate matches across all
// patterns compete by position: the rightmost split point that still fits
// the chunk budget wins, whichever pattern produced it.
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\n\s*(?:function|class|def|public|private|protected|interface|struct|enum)\s+`),
	regexp.MustCompile(`\n\s*/\*(?s:.*?)\*/\s*\n`),
	regexp.MustCompile(`\n\s*//.*\n`),
	regexp.MustCompile(`\n\s*\n\s*\n`),
	regexp.MustCompile(`\n\s*\}\s*\n`),
	regexp.MustCompile(`\.\s+`),
	regexp.MustCompile(`\n`),
}

var prosePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\n\s*\n`),
	regexp.MustCompile(`\.\s+`),
	regexp.MustCompile(`!\s+`),
	regexp.MustCompile(`\?\s+`),
	regexp.MustCompile(`;\s+`),
	regexp.MustCompile(`\n`),
}

// BoundaryChunker splits normalized text into overlapping, size-bounded
// segments, preferring content-aware boundaries over hard cuts.
type BoundaryChunker struct {
	maxChunkSize int
	minChunkSize int
	overlapSize  int
}

func NewBoundaryChunker(maxChunkSize, minChunkSize, overlapSize int) *BoundaryChunker {
	return &BoundaryChunker{
		maxChunkSize: maxChunkSize,
		minChunkSize: minChunkSize,
		overlapSize:  overlapSize,
	}
}

// Chunk splits text into chunks covering the input with overlapSize
// characters of carry-over between consecutive chunks. Split segments
// whose trimmed length falls under minChunkSize are discarded and
// counted in dropped. Offsets are derived from remaining-length
// bookkeeping and are best-effort position markers.
func (c *BoundaryChunker) Chunk(text, sourcePath string) ([]domain.Chunk, int) {
	patterns := prosePatterns
	if codeExtensions[strings.ToLower(filepath.Ext(sourcePath))] {
		patterns = codePatterns
	}

	var chunks []domain.Chunk
	dropped := 0
	remaining := text
	current := ""
	index := 0

	for len(remaining) > 0 {
		if len(remaining) <= c.maxChunkSize {
			if current != "" {
				chunks = append(chunks, domain.Chunk{
					Text:      current + remaining,
					Index:     index,
					StartChar: len(text) - len(remaining) - len(current),
					EndChar:   len(text),
				})
			} else if len(strings.TrimSpace(remaining)) >= c.minChunkSize {
				chunks = append(chunks, domain.Chunk{
					Text:      remaining,
					Index:     index,
					StartChar: len(text) - len(remaining),
					EndChar:   len(text),
				})
			} else {
				dropped++
			}
			break
		}

		budget := c.maxChunkSize - len(current)
		bestSplit := -1
		for _, pattern := range patterns {
			for _, m := range pattern.FindAllStringIndex(remaining, -1) {
				splitPoint := m[1]
				if splitPoint <= budget && splitPoint > bestSplit {
					bestSplit = splitPoint
				}
			}
		}
		if bestSplit == -1 {
			bestSplit = budget
		}

		segment := current + remaining[:bestSplit]
		if len(strings.TrimSpace(segment)) >= c.minChunkSize {
			chunks = append(chunks, domain.Chunk{
				Text:      segment,
				Index:     index,
				StartChar: len(text) - len(remaining) - len(current),
				EndChar:   len(text) - len(remaining) + bestSplit,
			})
			index++
		} else {
			dropped++
		}

		nextStart := bestSplit - c.overlapSize
		if nextStart < 0 {
			nextStart = 0
		}
		current = remaining[nextStart:bestSplit]
		remaining = remaining[bestSplit:]
	}

	return chunks, dropped
}
