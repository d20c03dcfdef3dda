package vectorstore

import (
	"context"

	"github.com/qaforge/qaforge/models"
)

// Entry is one indexed chunk: embedding, raw text, and traceable metadata.
type Entry struct {
	ID        string
	Embedding []float32
	Text      string
	Metadata  models.ChunkMetadata
}

// Match is a query hit ranked by distance (smaller = more similar).
type Match struct {
	ID       string
	Text     string
	Metadata models.ChunkMetadata
	Distance float64
}

// Record pairs an entry id with its metadata, for listings.
type Record struct {
	ID       string
	Metadata models.ChunkMetadata
}

// Store is the contract the pipeline requires from a vector store.
// The similarity metric is cosine distance.
type Store interface {
	Init(ctx context.Context) error
	Upsert(ctx context.Context, entries []Entry) error
	Query(ctx context.Context, embedding []float32, k int) ([]Match, error)
	GetAll(ctx context.Context) ([]Record, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}
