package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"reposage/internal/port"
)

// ErrNoContext means retrieval found nothing relevant, so generation
// was skipped rather than allowed to answer from thin air.
var ErrNoContext = errors.New("no relevant context found for issue")

const solveSystemPrompt = "You are an expert developer. Help solve coding issues based on provided context."

// GroundingChunk records one retrieved chunk that backed a solution.
type GroundingChunk struct {
	Score      float64 `json:"score"`
	SourcePath string  `json:"sourcePath"`
	ChunkText  string  `json:"chunkText"`
}

// Solution is an LLM-generated answer plus the chunks it was grounded on.
type Solution struct {
	Text      string           `json:"text"`
	Grounding []GroundingChunk `json:"grounding"`
}

// SolveUseCase composes answers: retrieve context chunks for an issue,
// then ask the model to resolve the issue against that context.
type SolveUseCase struct {
	search *SearchUseCase
	llm    port.LLM
	topK   int
}

func NewSolveUseCase(search *SearchUseCase, llm port.LLM, topK int) *SolveUseCase {
	return &SolveUseCase{search: search, llm: llm, topK: topK}
}

// Solve retrieves the topK chunks most relevant to issue and generates
// a solution from them. Returns ErrNoContext when retrieval comes back
// empty; the model is never called without grounding.
func (u *SolveUseCase) Solve(ctx context.Context, issue, repoLabel string) (*Solution, error) {
	results, err := u.search.Search(ctx, issue, repoLabel, u.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoContext
	}

	parts := make([]string, 0, len(results))
	grounding := make([]GroundingChunk, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.ChunkText)
		grounding = append(grounding, GroundingChunk{
			Score:      r.Score,
			SourcePath: r.SourcePath,
			ChunkText:  r.ChunkText,
		})
	}
	contextBlock := strings.Join(parts, "\n\n---\n\n")

	userPrompt := fmt.Sprintf(
		"A user has posted the following issue:\n\n\"%s\"\n\nBased on the following relevant code/documentation context:\n\n%s\n\nGenerate a helpful, concise solution or steps to fix this issue.",
		issue, contextBlock,
	)

	answer, err := u.llm.GenerateWithSystem(ctx, solveSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate solution: %w", err)
	}

	return &Solution{
		Text:      strings.TrimSpace(answer),
		Grounding: grounding,
	}, nil
}
