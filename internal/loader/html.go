package loader

import (
	"net/url"
	"os"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// htmlLoader strips markup and boilerplate from an HTML document with
// readability, keeping the article text as a single section.
type htmlLoader struct{}

func (h *htmlLoader) Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), &url.URL{Scheme: "file", Path: path})
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil, nil
	}
	return []string{text}, nil
}
