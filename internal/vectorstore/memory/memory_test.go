package memory

import (
	"context"
	"math"
	"testing"

	"github.com/qaforge/qaforge/internal/vectorstore"
	"github.com/qaforge/qaforge/models"
)

func entry(id string, vec []float32, source string, chunkID int) vectorstore.Entry {
	return vectorstore.Entry{
		ID:        id,
		Embedding: vec,
		Text:      "text of " + id,
		Metadata:  models.ChunkMetadata{Source: source, ChunkID: chunkID, FileType: models.FileTypeDocument},
	}
}

func TestQueryRanksByCosineDistance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStorage()
	err := s.Upsert(ctx, []vectorstore.Entry{
		entry("a.txt_0", []float32{1, 0}, "a.txt", 0),
		entry("a.txt_1", []float32{0, 1}, "a.txt", 1),
		entry("b.txt_0", []float32{1, 0.2}, "b.txt", 0),
	})
	if err != nil {
		t.Fatal(err)
	}

	matches, err := s.Query(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID != "a.txt_0" {
		t.Fatalf("closest match = %s, want a.txt_0", matches[0].ID)
	}
	if math.Abs(matches[0].Distance) > 1e-9 {
		t.Fatalf("identical vector distance = %f, want 0", matches[0].Distance)
	}
	if matches[1].ID != "b.txt_0" {
		t.Fatalf("second match = %s, want b.txt_0", matches[1].ID)
	}
	if matches[0].Distance > matches[1].Distance {
		t.Fatal("matches not sorted by ascending distance")
	}
}

func TestQueryEmptyStore(t *testing.T) {
	t.Parallel()
	matches, err := NewStorage().Query(context.Background(), []float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatalf("empty store returned %d matches", len(matches))
	}
}

func TestUpsertOverwritesByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStorage()
	_ = s.Upsert(ctx, []vectorstore.Entry{entry("doc.txt_0", []float32{1, 0}, "doc.txt", 0)})
	_ = s.Upsert(ctx, []vectorstore.Entry{entry("doc.txt_0", []float32{0, 1}, "doc.txt", 0)})

	if s.Len() != 1 {
		t.Fatalf("store has %d entries after re-upsert, want 1", s.Len())
	}
}

func TestDeleteByIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStorage()
	_ = s.Upsert(ctx, []vectorstore.Entry{
		entry("a.txt_0", []float32{1, 0}, "a.txt", 0),
		entry("b.txt_0", []float32{0, 1}, "b.txt", 0),
	})
	if err := s.DeleteByIDs(ctx, []string{"a.txt_0", "missing"}); err != nil {
		t.Fatal(err)
	}

	records, err := s.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].ID != "b.txt_0" {
		t.Fatalf("records = %#v", records)
	}
}
