package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reposage/internal/domain"
	"reposage/internal/port"
)

// QdrantStore is a minimal REST client to Qdrant implementing
// port.VectorStore with cosine distance.
type QdrantStore struct {
	url    string
	apiKey string
	client *http.Client
}

// QdrantConfig contains connection details for a Qdrant instance.
type QdrantConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func NewQdrantStore(cfg QdrantConfig) *QdrantStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &QdrantStore{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection with cosine distance if it
// does not exist. A concurrent creator winning the race is not an
// error: "already exists" outcomes are swallowed.
func (s *QdrantStore) EnsureCollection(ctx context.Context, name string, dimension int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	err := s.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", s.url, name), body, nil)
	if err != nil && isAlreadyExists(err) {
		return nil
	}
	return err
}

// EnsureKeywordIndex creates a keyword payload index on the given field
// so it can be used in equality filters. Idempotent like
// EnsureCollection.
func (s *QdrantStore) EnsureKeywordIndex(ctx context.Context, name, field string) error {
	body := map[string]any{
		"field_name":   field,
		"field_schema": "keyword",
	}
	err := s.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s/index", s.url, name), body, nil)
	if err != nil && isAlreadyExists(err) {
		return nil
	}
	return err
}

type qdrantPoint struct {
	ID      uint64              `json:"id"`
	Vector  []float32           `json:"vector"`
	Payload domain.ChunkPayload `json:"payload"`
}

func (s *QdrantStore) Upsert(ctx context.Context, name string, points []port.Point) error {
	qp := make([]qdrantPoint, len(points))
	for i, p := range points {
		qp[i] = qdrantPoint{ID: p.ID, Vector: p.Vector, Payload: p.Payload}
	}
	body := map[string]any{"points": qp}
	return s.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, name), body, nil)
}

// Search returns the nearest points by cosine similarity, payloads only.
func (s *QdrantStore) Search(ctx context.Context, name string, params port.SearchParams) ([]domain.ScoredChunk, error) {
	body := map[string]any{
		"vector":       params.Vector,
		"limit":        params.Limit,
		"with_payload": true,
		"with_vector":  false,
	}
	if params.RepoLabel != "" {
		body["filter"] = map[string]any{
			"must": []map[string]any{
				{
					"key":   "repoLabel",
					"match": map[string]any{"value": params.RepoLabel},
				},
			},
		}
	}

	var resp struct {
		Result []struct {
			Score   float64             `json:"score"`
			Payload domain.ChunkPayload `json:"payload"`
		} `json:"result"`
	}
	err := s.doJSON(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/search", s.url, name), body, &resp)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ScoredChunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.ScoredChunk{Score: r.Score, Payload: r.Payload})
	}
	return results, nil
}

func (s *QdrantStore) Count(ctx context.Context, name string) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	body := map[string]any{"exact": true}
	err := s.doJSON(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/count", s.url, name), body, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

func (s *QdrantStore) doJSON(ctx context.Context, method, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant %s %s failed (%s): %s", method, url, resp.Status, string(respBody))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func isAlreadyExists(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already exists")
}
