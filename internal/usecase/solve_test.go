package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reposage/internal/adapter/embedding"
	"reposage/internal/adapter/memstore"
	"reposage/internal/domain"
	"reposage/internal/port"
)

type fakeLLM struct {
	calls      int
	lastSystem string
	lastUser   string
	answer     string
	err        error
}

func (f *fakeLLM) GenerateWithSystem(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	return f.answer, f.err
}

func (f *fakeLLM) ModelName() string { return "fake-model" }

func seedChunk(t *testing.T, store port.VectorStore, embedder port.Embedder, collection, repoLabel, path, text string, index int) {
	t.Helper()
	if err := store.EnsureCollection(context.Background(), collection, embedder.Dimension()); err != nil {
		t.Fatalf("failed to ensure collection: %v", err)
	}
	vector, err := embedder.Embed(context.Background(), text)
	if err != nil {
		t.Fatalf("failed to embed seed chunk: %v", err)
	}
	point := port.Point{
		ID:     domain.ChunkID(path, index),
		Vector: vector,
		Payload: domain.ChunkPayload{
			SourcePath: path,
			RepoLabel:  repoLabel,
			FileName:   path,
			ChunkIndex: index,
			ChunkText:  text,
			CreatedAt:  time.Now().UTC(),
		},
	}
	if err := store.Upsert(context.Background(), collection, []port.Point{point}); err != nil {
		t.Fatalf("failed to upsert seed chunk: %v", err)
	}
}

func TestSolveGroundsAnswerInRetrievedChunks(t *testing.T) {
	store := memstore.NewMemoryStore()
	embedder := embedding.NewMockEmbedder(768)
	snippet := "if (input === null) throw new Error();"
	seedChunk(t, store, embedder, "test_chunks", "demo", "validate.js", snippet, 0)

	llm := &fakeLLM{answer: "  Guard against null input before dereferencing.  "}
	solve := NewSolveUseCase(NewSearchUseCase(store, embedder, "test_chunks"), llm, 5)

	solution, err := solve.Solve(context.Background(), "why does validate crash on null", "demo")
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if solution.Text != "Guard against null input before dereferencing." {
		t.Errorf("expected trimmed answer, got %q", solution.Text)
	}
	if len(solution.Grounding) != 1 {
		t.Fatalf("expected 1 grounding chunk, got %d", len(solution.Grounding))
	}
	if solution.Grounding[0].ChunkText != snippet {
		t.Errorf("grounding does not carry the retrieved chunk: %q", solution.Grounding[0].ChunkText)
	}
	if !strings.Contains(llm.lastUser, snippet) {
		t.Error("prompt does not include the retrieved context")
	}
	if !strings.Contains(llm.lastUser, "why does validate crash on null") {
		t.Error("prompt does not include the issue text")
	}
	if !strings.Contains(llm.lastSystem, "expert developer") {
		t.Errorf("unexpected system prompt: %q", llm.lastSystem)
	}
}

func TestSolveJoinsContextWithDelimiter(t *testing.T) {
	store := memstore.NewMemoryStore()
	embedder := embedding.NewMockEmbedder(768)
	seedChunk(t, store, embedder, "test_chunks", "demo", "a.go", "first chunk of context", 0)
	seedChunk(t, store, embedder, "test_chunks", "demo", "b.go", "second chunk of context", 0)

	llm := &fakeLLM{answer: "answer"}
	solve := NewSolveUseCase(NewSearchUseCase(store, embedder, "test_chunks"), llm, 5)

	if _, err := solve.Solve(context.Background(), "context question", "demo"); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !strings.Contains(llm.lastUser, "\n\n---\n\n") {
		t.Error("context chunks are not joined with the delimiter")
	}
}

func TestSolveEmptyRetrievalSkipsGeneration(t *testing.T) {
	store := memstore.NewMemoryStore()
	embedder := embedding.NewMockEmbedder(768)
	if err := store.EnsureCollection(context.Background(), "test_chunks", embedder.Dimension()); err != nil {
		t.Fatalf("failed to ensure collection: %v", err)
	}

	llm := &fakeLLM{answer: "should never be used"}
	solve := NewSolveUseCase(NewSearchUseCase(store, embedder, "test_chunks"), llm, 5)

	_, err := solve.Solve(context.Background(), "anything at all here", "demo")
	if !errors.Is(err, ErrNoContext) {
		t.Fatalf("expected ErrNoContext, got %v", err)
	}
	if llm.calls != 0 {
		t.Errorf("model was called %d times despite empty retrieval", llm.calls)
	}
}

func TestSolvePropagatesGenerationFailure(t *testing.T) {
	store := memstore.NewMemoryStore()
	embedder := embedding.NewMockEmbedder(768)
	seedChunk(t, store, embedder, "test_chunks", "demo", "a.go", "some indexed context text", 0)

	llm := &fakeLLM{err: errors.New("upstream unavailable")}
	solve := NewSolveUseCase(NewSearchUseCase(store, embedder, "test_chunks"), llm, 5)

	if _, err := solve.Solve(context.Background(), "question text", "demo"); err == nil {
		t.Fatal("expected error from generation failure")
	}
}
