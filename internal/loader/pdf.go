package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfLoader extracts text per page using pdfcpu. pdfcpu has no direct text
// extraction, so page content is dumped to a scratch directory and read back
// in page order; each page becomes one section.
type pdfLoader struct{}

func (p *pdfLoader) Load(path string) ([]string, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	pageCount := pdfCtx.PageCount

	outDir, err := os.MkdirTemp("", "qaforge-pdf-*")
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(path, outDir, nil, conf); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	pageTexts := make(map[int]string, pageCount)
	entries, _ := os.ReadDir(outDir)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(entry.Name(), "Content_page_%d", &pageNum); err != nil {
			if _, err := fmt.Sscanf(entry.Name(), "page_%d", &pageNum); err != nil {
				continue
			}
		}
		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			continue
		}
		pageTexts[pageNum] = string(content)
	}

	pages := make([]int, 0, len(pageTexts))
	for n := range pageTexts {
		pages = append(pages, n)
	}
	sort.Ints(pages)

	sections := make([]string, 0, len(pages))
	for _, n := range pages {
		if text := pageTexts[n]; text != "" {
			sections = append(sections, text)
		}
	}
	return sections, nil
}
