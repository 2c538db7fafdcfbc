package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"
	"reposage/internal/domain"
	"reposage/internal/port"
)

// BoltStore implements port.VectorStore against a local bbolt file, one
// bucket per collection, for runs that don't have a Qdrant instance.
// Search is brute-force cosine over an in-memory copy of the vectors;
// fine at repository scale.
type BoltStore struct {
	db *bbolt.DB
	mu sync.RWMutex
	// collection -> id -> entry
	collections map[string]map[uint64]boltEntry
}

type boltEntry struct {
	Vector  []float32           `json:"v"`
	Payload domain.ChunkPayload `json:"p"`
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector database: %w", err)
	}

	s := &BoltStore{
		db:          db,
		collections: make(map[string]map[uint64]boltEntry),
	}
	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load vectors: %w", err)
	}
	return s, nil
}

func (s *BoltStore) loadAll() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bbolt.Bucket) error {
			entries := make(map[uint64]boltEntry)
			err := b.ForEach(func(k, v []byte) error {
				var entry boltEntry
				if err := json.Unmarshal(v, &entry); err != nil {
					return nil // skip corrupted entries
				}
				entries[binary.BigEndian.Uint64(k)] = entry
				return nil
			})
			if err != nil {
				return err
			}
			s.collections[string(name)] = entries
			return nil
		})
	})
}

// EnsureCollection creates the bucket if absent. Races to create are
// harmless: CreateBucketIfNotExists is idempotent.
func (s *BoltStore) EnsureCollection(_ context.Context, name string, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create collection bucket: %w", err)
	}
	if _, ok := s.collections[name]; !ok {
		s.collections[name] = make(map[uint64]boltEntry)
	}
	return nil
}

// EnsureKeywordIndex is a no-op: the brute-force scan filters payload
// fields directly.
func (s *BoltStore) EnsureKeywordIndex(_ context.Context, _, _ string) error {
	return nil
}

func (s *BoltStore) Upsert(_ context.Context, name string, points []port.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("collection not found: %s", name)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			return fmt.Errorf("collection bucket not found: %s", name)
		}

		for _, p := range points {
			entry := boltEntry{Vector: p.Vector, Payload: p.Payload}
			data, err := json.Marshal(entry)
			if err != nil {
				return err
			}

			var key [8]byte
			binary.BigEndian.PutUint64(key[:], p.ID)
			if err := b.Put(key[:], data); err != nil {
				return err
			}
			entries[p.ID] = entry
		}
		return nil
	})
}

func (s *BoltStore) Search(_ context.Context, name string, params port.SearchParams) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection not found: %s", name)
	}

	scored := make([]domain.ScoredChunk, 0, len(entries))
	for _, entry := range entries {
		if params.RepoLabel != "" && entry.Payload.RepoLabel != params.RepoLabel {
			continue
		}
		scored = append(scored, domain.ScoredChunk{
			Score:   cosineSimilarity(params.Vector, entry.Vector),
			Payload: entry.Payload,
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

func (s *BoltStore) Count(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.collections[name]
	if !ok {
		return 0, fmt.Errorf("collection not found: %s", name)
	}
	return len(entries), nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
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
