package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"chitravaani/internal/domain"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	records   []domain.Record
	norms     []float64
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.records = nil
	s.norms = nil
	return nil
}

func (s *Storage) Upsert(_ context.Context, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if len(r.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch for %q: %d != %d", r.Identifier, len(r.Vector), s.dimension)
		}
	}
	for _, r := range records {
		s.records = append(s.records, r)
		s.norms = append(s.norms, norm(r.Vector))
	}
	return nil
}

// Search scores every stored record by cosine similarity to vector.
func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.Scored, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.records) == 0 {
		return nil, nil
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: %d != %d", len(vector), s.dimension)
	}
	qn := norm(vector)
	scores := make([]float64, len(s.records))
	for i := range s.records {
		scores[i] = cosine(s.records[i].Vector, vector, s.norms[i], qn)
	}
	return topKStable(s.records, scores, topK), nil
}

func (s *Storage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.norms = nil
	return nil
}

func topKStable(records []domain.Record, scores []float64, topK int) []domain.Scored {
	if topK <= 0 {
		topK = 5
	}
	idxs := make([]int, len(records))
	for i := range idxs {
		idxs[i] = i
	}
	// Stable: equal scores keep corpus order.
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.Scored, 0, topK)
	for _, j := range idxs[:topK] {
		results = append(results, domain.Scored{Record: records[j], Score: scores[j]})
	}
	return results
}

func cosine(a, b []float64, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	c := sum / (na * nb)
	if math.IsNaN(c) {
		return 0
	}
	return c
}

func norm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
