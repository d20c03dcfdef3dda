package structure

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Declaration is a named top-level declaration extracted from source code.
// For aggregate types Members holds the contained function-like members;
// for standalone functions Params holds the ordered parameter names.
type Declaration struct {
	Name      string   `json:"name"`
	Docstring string   `json:"docstring"`
	Members   []string `json:"members,omitempty"`
	Params    []string `json:"params,omitempty"`
}

// Info is the structure extracted from one source-code document.
type Info struct {
	Types     []Declaration `json:"types"`
	Functions []Declaration `json:"functions"`
	Imports   []string      `json:"imports"`
	Comments  []string      `json:"comments"`
}

// ParseError reports a syntax error during extraction. Ingestion treats it
// as non-fatal and proceeds without structure metadata.
type ParseError struct {
	Lang string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s source: %v", e.Lang, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extractor parses one source language.
type Extractor interface {
	Extract(source string) (*Info, error)
}

var extractors = map[string]Extractor{
	".py": &pythonExtractor{},
	".go": &goExtractor{},
}

// ForFile returns the extractor for the file's extension, or nil when the
// language is not supported.
func ForFile(path string) Extractor {
	return extractors[strings.ToLower(filepath.Ext(path))]
}

// dedupe keeps first occurrences, preserving order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
