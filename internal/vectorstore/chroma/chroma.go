package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qaforge/qaforge/internal/vectorstore"
	"github.com/qaforge/qaforge/models"
)

// Storage is a minimal REST client to a Chroma server. It pins the
// collection to cosine space and creates it if missing.
type Storage struct {
	url          string
	collection   string
	collectionID string
	client       *http.Client
}

type Config struct {
	URL        string
	Collection string
	Timeout    time.Duration
}

var _ vectorstore.Store = (*Storage)(nil)

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        strings.TrimRight(cfg.URL, "/"),
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Init resolves (or creates) the collection and caches its id.
func (s *Storage) Init(ctx context.Context) error {
	body := map[string]any{
		"name":          s.collection,
		"get_or_create": true,
		"metadata":      map[string]any{"hnsw:space": "cosine"},
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := s.postJSON(ctx, s.url+"/api/v1/collections", body, &created); err != nil {
		return fmt.Errorf("creating collection %s: %w", s.collection, err)
	}
	if created.ID == "" {
		return fmt.Errorf("collection %s: empty id in response", s.collection)
	}
	s.collectionID = created.ID
	return nil
}

func (s *Storage) Upsert(ctx context.Context, entries []vectorstore.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, len(entries))
	embeddings := make([][]float32, len(entries))
	documents := make([]string, len(entries))
	metadatas := make([]map[string]any, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		embeddings[i] = e.Embedding
		documents[i] = e.Text
		metadatas[i] = encodeMeta(e.Metadata)
	}
	body := map[string]any{
		"ids":        ids,
		"embeddings": embeddings,
		"documents":  documents,
		"metadatas":  metadatas,
	}
	return s.postJSON(ctx, s.collectionURL("upsert"), body, nil)
}

func (s *Storage) Query(ctx context.Context, embedding []float32, k int) ([]vectorstore.Match, error) {
	body := map[string]any{
		"query_embeddings": [][]float32{embedding},
		"n_results":        k,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	var resp struct {
		IDs       [][]string         `json:"ids"`
		Documents [][]string         `json:"documents"`
		Metadatas [][]map[string]any `json:"metadatas"`
		Distances [][]float64        `json:"distances"`
	}
	if err := s.postJSON(ctx, s.collectionURL("query"), body, &resp); err != nil {
		return nil, err
	}
	if len(resp.IDs) == 0 {
		return nil, nil
	}

	matches := make([]vectorstore.Match, 0, len(resp.IDs[0]))
	for i, id := range resp.IDs[0] {
		m := vectorstore.Match{ID: id}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
			m.Text = resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			m.Metadata = decodeMeta(resp.Metadatas[0][i])
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			m.Distance = resp.Distances[0][i]
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *Storage) GetAll(ctx context.Context) ([]vectorstore.Record, error) {
	body := map[string]any{
		"include": []string{"metadatas"},
	}
	var resp struct {
		IDs       []string         `json:"ids"`
		Metadatas []map[string]any `json:"metadatas"`
	}
	if err := s.postJSON(ctx, s.collectionURL("get"), body, &resp); err != nil {
		return nil, err
	}

	records := make([]vectorstore.Record, 0, len(resp.IDs))
	for i, id := range resp.IDs {
		r := vectorstore.Record{ID: id}
		if i < len(resp.Metadatas) {
			r.Metadata = decodeMeta(resp.Metadatas[i])
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *Storage) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.postJSON(ctx, s.collectionURL("delete"), map[string]any{"ids": ids}, nil)
}

func (s *Storage) collectionURL(op string) string {
	return fmt.Sprintf("%s/api/v1/collections/%s/%s", s.url, s.collectionID, op)
}

func (s *Storage) postJSON(ctx context.Context, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("vector store returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func encodeMeta(m models.ChunkMetadata) map[string]any {
	return map[string]any{
		"source":    m.Source,
		"chunk_id":  m.ChunkID,
		"file_path": m.FilePath,
		"file_type": m.FileType,
	}
}

func decodeMeta(raw map[string]any) models.ChunkMetadata {
	meta := models.ChunkMetadata{}
	if v, ok := raw["source"].(string); ok {
		meta.Source = v
	}
	if v, ok := raw["chunk_id"].(float64); ok {
		meta.ChunkID = int(v)
	}
	if v, ok := raw["file_path"].(string); ok {
		meta.FilePath = v
	}
	if v, ok := raw["file_type"].(string); ok {
		meta.FileType = v
	}
	return meta
}
