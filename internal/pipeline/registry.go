package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/qaforge/qaforge/internal/structure"
	"github.com/qaforge/qaforge/models"
)

// ListDocuments reconciles indexed source names against the filesystem.
// Index entries whose file was removed out-of-band are omitted, not repaired.
func (p *Pipeline) ListDocuments(ctx context.Context) ([]models.DocumentInfo, error) {
	records, err := p.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing index entries: %w", err)
	}

	sources := map[string]bool{}
	for _, r := range records {
		if r.Metadata.Source != "" {
			sources[r.Metadata.Source] = true
		}
	}

	docs := make([]models.DocumentInfo, 0, len(sources))
	for source := range sources {
		path := filepath.Join(p.cfg.Documents.Path, source)
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		ext := filepath.Ext(source)
		docs = append(docs, models.DocumentInfo{
			Filename:  source,
			Size:      stat.Size(),
			Type:      ext,
			Processed: true,
			IsSource:  structure.ForFile(source) != nil,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Filename < docs[j].Filename })
	return docs, nil
}

// DeleteDocument removes every indexed chunk of the filename, evicts its
// cached source structure, and deletes the file if it still exists. Index
// entries are purged even when the file is already gone, so out-of-band
// removals cannot strand stale chunks in retrieval. The returned bool
// reports whether anything (entries or file) existed; unknown filenames are
// an idempotent no-op.
func (p *Pipeline) DeleteDocument(ctx context.Context, filename string) (bool, error) {
	unlock := p.lockFile(filename)
	defer unlock()

	purged, err := p.purgeEntries(ctx, filename)
	if err != nil {
		return false, err
	}

	p.evictStructure(filename)

	found := purged > 0
	path := filepath.Join(p.cfg.Documents.Path, filepath.Base(filename))
	switch err := os.Remove(path); {
	case err == nil:
		found = true
	case !os.IsNotExist(err):
		return found, fmt.Errorf("removing %s: %w", path, err)
	}

	p.logger.Printf("deleted document %s (%d index entries)", filename, purged)
	return found, nil
}

// purgeEntries deletes every index entry whose source is filename and
// reports how many there were. Callers must hold the filename lock.
func (p *Pipeline) purgeEntries(ctx context.Context, filename string) (int, error) {
	records, err := p.store.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing index entries: %w", err)
	}

	var ids []string
	for _, r := range records {
		if r.Metadata.Source == filename {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) > 0 {
		if err := p.store.DeleteByIDs(ctx, ids); err != nil {
			return 0, fmt.Errorf("deleting %d entries for %s: %w", len(ids), filename, err)
		}
	}
	return len(ids), nil
}
