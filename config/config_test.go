package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chunker.MaxChunkSize != 1000 {
		t.Errorf("expected MaxChunkSize=1000, got %d", cfg.Chunker.MaxChunkSize)
	}
	if cfg.Chunker.MinChunkSize != 50 {
		t.Errorf("expected MinChunkSize=50, got %d", cfg.Chunker.MinChunkSize)
	}
	if cfg.Chunker.OverlapSize != 100 {
		t.Errorf("expected OverlapSize=100, got %d", cfg.Chunker.OverlapSize)
	}
	if cfg.Embedding.Dimension != 768 {
		t.Errorf("expected Dimension=768, got %d", cfg.Embedding.Dimension)
	}
	if cfg.Embedding.ThrottleMS != 100 {
		t.Errorf("expected ThrottleMS=100, got %d", cfg.Embedding.ThrottleMS)
	}
	if cfg.Solve.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Solve.TopK)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reposage.yaml")

	content := `
chunker:
  max_chunk_size: 500
store:
  backend: bolt
  collection: test_chunks
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Chunker.MaxChunkSize != 500 {
		t.Errorf("expected MaxChunkSize=500, got %d", cfg.Chunker.MaxChunkSize)
	}
	if cfg.Store.Backend != "bolt" {
		t.Errorf("expected backend=bolt, got %s", cfg.Store.Backend)
	}
	if cfg.Store.Collection != "test_chunks" {
		t.Errorf("expected collection=test_chunks, got %s", cfg.Store.Collection)
	}
	// Untouched sections keep their defaults.
	if cfg.Embedding.Model != "text-embedding-004" {
		t.Errorf("expected default embedding model, got %s", cfg.Embedding.Model)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reposage.yaml")

	content := `
solve:
  top_k: 12
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Solve.TopK != 12 {
		t.Errorf("expected TopK=12, got %d", cfg.Solve.TopK)
	}
}
