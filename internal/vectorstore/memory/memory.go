package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/qaforge/qaforge/internal/vectorstore"
)

// Storage is an in-process vector store with cosine distance. It backs
// tests and local runs without a Chroma server.
type Storage struct {
	mu      sync.RWMutex
	entries map[string]vectorstore.Entry
}

var _ vectorstore.Store = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{entries: make(map[string]vectorstore.Entry)}
}

func (s *Storage) Init(ctx context.Context) error { return nil }

func (s *Storage) Upsert(ctx context.Context, entries []vectorstore.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return nil
}

func (s *Storage) Query(ctx context.Context, embedding []float32, k int) ([]vectorstore.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]vectorstore.Match, 0, len(s.entries))
	for _, e := range s.entries {
		matches = append(matches, vectorstore.Match{
			ID:       e.ID,
			Text:     e.Text,
			Metadata: e.Metadata,
			Distance: cosineDistance(embedding, e.Embedding),
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (s *Storage) GetAll(ctx context.Context) ([]vectorstore.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]vectorstore.Record, 0, len(s.entries))
	for _, e := range s.entries {
		records = append(records, vectorstore.Record{ID: e.ID, Metadata: e.Metadata})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (s *Storage) DeleteByIDs(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.entries, id)
	}
	return nil
}

// Len reports the number of stored entries.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
