package memstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"reposage/internal/domain"
	"reposage/internal/port"
)

// MemoryStore is an in-memory port.VectorStore used in tests and as a
// throwaway backend.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[uint64]entry
}

type entry struct {
	vector  []float32
	payload domain.ChunkPayload
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[uint64]entry),
	}
}

func (s *MemoryStore) EnsureCollection(_ context.Context, name string, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; !ok {
		s.collections[name] = make(map[uint64]entry)
	}
	return nil
}

func (s *MemoryStore) EnsureKeywordIndex(_ context.Context, _, _ string) error {
	return nil
}

func (s *MemoryStore) Upsert(_ context.Context, name string, points []port.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("collection not found: %s", name)
	}
	for _, p := range points {
		entries[p.ID] = entry{vector: p.Vector, payload: p.Payload}
	}
	return nil
}

func (s *MemoryStore) Search(_ context.Context, name string, params port.SearchParams) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection not found: %s", name)
	}

	scored := make([]domain.ScoredChunk, 0, len(entries))
	for _, e := range entries {
		if params.RepoLabel != "" && e.payload.RepoLabel != params.RepoLabel {
			continue
		}
		scored = append(scored, domain.ScoredChunk{
			Score:   cosine(params.Vector, e.vector),
			Payload: e.payload,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if params.Limit > 0 && len(scored) > params.Limit {
		scored = scored[:params.Limit]
	}
	return scored, nil
}

func (s *MemoryStore) Count(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.collections[name]
	if !ok {
		return 0, fmt.Errorf("collection not found: %s", name)
	}
	return len(entries), nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
