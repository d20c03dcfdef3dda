package loader

import "os"

// textLoader reads the whole file as one UTF-8 text section.
type textLoader struct{}

func (t *textLoader) Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(data) == 0 {
		return nil, nil
	}
	return []string{string(data)}, nil
}
