package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"chitravaani/internal/domain"
)

// pointNamespace seeds deterministic point IDs; Qdrant only accepts integers or UUIDs.
var pointNamespace = uuid.MustParse("6f0b7c2e-3c1a-4d8e-9a52-1f4b2d7e9c10")

// Storage is a minimal REST client to Qdrant.
// It uses cosine distance and creates the collection if missing.
type Storage struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	status, err := s.send(ctx, http.MethodPut, s.collectionURL(""), body, nil)
	if status == http.StatusConflict {
		return nil
	}
	return err
}

func (s *Storage) Upsert(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	points := make([]map[string]any, len(records))
	for i, r := range records {
		if len(r.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch for %q: %d != %d", r.Identifier, len(r.Vector), s.dimension)
		}
		points[i] = map[string]any{
			"id":     PointID(r),
			"vector": r.Vector,
			"payload": map[string]any{
				"identifier": r.Identifier,
				"text":       r.Text,
				"position":   r.Position,
			},
		}
	}
	body := map[string]any{"points": points}
	_, err := s.send(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), body, nil)
	return err
}

// Search asks Qdrant for the nearest points and re-sorts them so equal scores
// follow corpus position.
func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.Scored, error) {
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if _, err := s.send(ctx, http.MethodPost, s.collectionURL("/points/search"), req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.Scored, 0, len(resp.Result))
	for _, r := range resp.Result {
		rec := domain.Record{}
		if v, ok := r.Payload["identifier"].(string); ok {
			rec.Identifier = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			rec.Text = v
		}
		if v, ok := r.Payload["position"].(float64); ok {
			rec.Position = int(v)
		}
		results = append(results, domain.Scored{Record: rec, Score: r.Score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Record.Position < results[j].Record.Position
	})
	return results, nil
}

// Clear drops the collection; a missing collection is not an error.
func (s *Storage) Clear(ctx context.Context) error {
	status, err := s.send(ctx, http.MethodDelete, s.collectionURL(""), nil, nil)
	if status == http.StatusNotFound {
		return nil
	}
	return err
}

// PointID derives a stable Qdrant point ID from the record's position and identifier.
func PointID(r domain.Record) string {
	return uuid.NewSHA1(pointNamespace, []byte(strconv.Itoa(r.Position)+":"+r.Identifier)).String()
}

func (s *Storage) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.url, s.collection, suffix)
}

func (s *Storage) send(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode, nil
}
