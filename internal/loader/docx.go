package loader

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"
)

// docxLoader pulls paragraph text out of the word/document.xml entry of a
// DOCX archive. Legacy .doc files are not a zip container and surface as a
// LoadError.
type docxLoader struct{}

func (d *docxLoader) Load(path string) ([]string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		text, err := docxParagraphs(rc)
		rc.Close()
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		if text == "" {
			return nil, nil
		}
		return []string{text}, nil
	}
	return nil, &LoadError{Path: path, Err: io.ErrUnexpectedEOF}
}

// docxParagraphs streams the document XML, collecting <w:t> runs and
// inserting newlines at paragraph boundaries (</w:p>).
func docxParagraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
