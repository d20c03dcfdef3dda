package chunker

import "fmt"

// ConfigError reports invalid chunking parameters. It is raised before any
// splitting work happens so a bad configuration can never produce a
// non-advancing split.
type ConfigError struct {
	MaxSize int
	Overlap int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid chunking config: max_size=%d overlap=%d", e.MaxSize, e.Overlap)
}

// Chunker splits raw text into ordered, overlapping, size-bounded chunks.
type Chunker struct {
	maxSize int
	overlap int
}

// New validates the parameters and returns a Chunker. Overlap must be
// strictly smaller than maxSize, otherwise the window would never advance.
func New(maxSize, overlap int) (*Chunker, error) {
	if maxSize <= 0 || overlap < 0 || overlap >= maxSize {
		return nil, &ConfigError{MaxSize: maxSize, Overlap: overlap}
	}
	return &Chunker{maxSize: maxSize, overlap: overlap}, nil
}

// Split cuts text into chunks of at most maxSize characters where each
// consecutive pair shares exactly overlap characters. The final chunk may be
// shorter and carries no trailing overlap. Empty input yields no chunks.
// Sizes are measured in runes so multi-byte text never splits mid-character.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= c.maxSize {
		return []string{text}
	}

	step := c.maxSize - c.overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + c.maxSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
