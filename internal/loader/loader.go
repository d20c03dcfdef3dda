package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat would be returned for a file no loader accepts.
// A plain-text fallback is registered for every unknown extension, so in
// practice this path is unreachable; it exists for callers that disable
// the fallback.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// LoadError reports an unreadable or corrupt document. It aborts that
// document's ingestion.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader extracts ordered text sections from a document on disk.
type Loader interface {
	Load(path string) ([]string, error)
}

var loaders = map[string]Loader{
	".pdf":  &pdfLoader{},
	".docx": &docxLoader{},
	".doc":  &docxLoader{},
	".html": &htmlLoader{},
	".htm":  &htmlLoader{},
}

// ForFile selects a loader by file extension. Unknown extensions (and the
// text-like ones: .txt, .md, source files) get the plain-text loader.
func ForFile(path string) Loader {
	if l, ok := loaders[strings.ToLower(filepath.Ext(path))]; ok {
		return l
	}
	return &textLoader{}
}
