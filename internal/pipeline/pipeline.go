package pipeline

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/qaforge/qaforge/config"
	"github.com/qaforge/qaforge/internal/chunker"
	"github.com/qaforge/qaforge/internal/loader"
	"github.com/qaforge/qaforge/internal/structure"
	"github.com/qaforge/qaforge/internal/vectorstore"
	"github.com/qaforge/qaforge/models"
	"github.com/qaforge/qaforge/provider"
)

// Pipeline owns the retrieval-and-grounding flow: ingestion into the vector
// store, grounded answering, test-case generation and the document registry.
// One instance serves the whole process; the source-structure cache and the
// per-filename locks live here rather than in package globals.
type Pipeline struct {
	cfg      *config.Config
	provider provider.Provider
	store    vectorstore.Store
	chunker  *chunker.Chunker
	logger   *log.Logger

	lockMu    sync.Mutex
	fileLocks map[string]*sync.Mutex

	structMu   sync.RWMutex
	structures map[string]*structure.Info
}

// New validates chunking parameters and assembles the pipeline.
func New(cfg *config.Config, p provider.Provider, store vectorstore.Store) (*Pipeline, error) {
	ch, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:        cfg,
		provider:   p,
		store:      store,
		chunker:    ch,
		logger:     log.New(log.Writer(), "[PIPELINE] ", log.LstdFlags),
		fileLocks:  make(map[string]*sync.Mutex),
		structures: make(map[string]*structure.Info),
	}, nil
}

// Initialize connects to the vector store.
func (p *Pipeline) Initialize(ctx context.Context) error {
	if err := p.store.Init(ctx); err != nil {
		return fmt.Errorf("vector store init: %w", err)
	}
	p.logger.Printf("pipeline initialized (chunk size %d, overlap %d)", p.cfg.Chunking.Size, p.cfg.Chunking.Overlap)
	return nil
}

// Ingest loads, chunks, embeds and indexes the document at filePath. The
// uploaded bytes must already reside at filePath. Re-ingesting replaces the
// document's previous entries: they are purged once the new embeddings are in
// hand, so a shrunken document leaves no stale trailing chunks behind. A
// failure mid-upsert leaves already-inserted chunks in place. Concurrent
// ingest/delete of the same filename is serialized.
func (p *Pipeline) Ingest(ctx context.Context, filePath string) error {
	filename := filepath.Base(filePath)
	unlock := p.lockFile(filename)
	defer unlock()

	p.logger.Printf("processing document: %s", filePath)

	sections, err := loader.ForFile(filePath).Load(filePath)
	if err != nil {
		return err
	}

	fileType := models.FileTypeDocument
	if ex := structure.ForFile(filePath); ex != nil {
		fileType = models.FileTypeSourceCode
		info, err := ex.Extract(strings.Join(sections, "\n"))
		if err != nil {
			// Extraction failure is non-fatal; ingestion proceeds without
			// structure metadata.
			p.logger.Printf("structure extraction failed for %s: %v", filename, err)
		} else {
			p.structMu.Lock()
			p.structures[filename] = info
			p.structMu.Unlock()
		}
	}

	var chunks []string
	for _, section := range sections {
		chunks = append(chunks, p.chunker.Split(section)...)
	}
	p.logger.Printf("split %s into %d chunks", filename, len(chunks))
	if len(chunks) == 0 {
		return nil
	}

	embeddings, err := p.provider.CreateEmbedding(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embedding %s: %w", filename, err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding %s: got %d vectors for %d chunks", filename, len(embeddings), len(chunks))
	}

	// Purge only after embedding succeeded, so a failed re-ingest keeps the
	// previous entries intact.
	if _, err := p.purgeEntries(ctx, filename); err != nil {
		return fmt.Errorf("replacing entries for %s: %w", filename, err)
	}

	for i, chunk := range chunks {
		entry := vectorstore.Entry{
			ID:        fmt.Sprintf("%s_%d", filename, i),
			Embedding: embeddings[i],
			Text:      chunk,
			Metadata: models.ChunkMetadata{
				Source:   filename,
				ChunkID:  i,
				FilePath: filePath,
				FileType: fileType,
			},
		}
		if err := p.store.Upsert(ctx, []vectorstore.Entry{entry}); err != nil {
			// Remaining upserts are abandoned; already-inserted chunks stay.
			return fmt.Errorf("indexing chunk %d of %s: %w", i, filename, err)
		}
		chunksIndexed.Inc()
	}

	documentsIngested.Inc()
	p.logger.Printf("successfully processed and indexed %s", filename)
	return nil
}

// Structure returns the cached source structure for a filename, if any.
func (p *Pipeline) Structure(filename string) (*structure.Info, bool) {
	p.structMu.RLock()
	defer p.structMu.RUnlock()
	info, ok := p.structures[filename]
	return info, ok
}

func (p *Pipeline) evictStructure(filename string) {
	p.structMu.Lock()
	delete(p.structures, filename)
	p.structMu.Unlock()
}

// lockFile serializes mutating operations on one filename.
func (p *Pipeline) lockFile(filename string) func() {
	p.lockMu.Lock()
	mu, ok := p.fileLocks[filename]
	if !ok {
		mu = &sync.Mutex{}
		p.fileLocks[filename] = mu
	}
	p.lockMu.Unlock()

	mu.Lock()
	return mu.Unlock
}
