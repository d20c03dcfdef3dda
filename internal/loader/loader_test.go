package loader

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestForFileSelection(t *testing.T) {
	t.Parallel()
	cases := []struct {
		path string
		want interface{}
	}{
		{"report.pdf", &pdfLoader{}},
		{"report.PDF", &pdfLoader{}},
		{"spec.docx", &docxLoader{}},
		{"legacy.doc", &docxLoader{}},
		{"page.html", &htmlLoader{}},
		{"notes.txt", &textLoader{}},
		{"script.py", &textLoader{}},
		{"main.go", &textLoader{}},
		{"mystery.xyz", &textLoader{}},
		{"no-extension", &textLoader{}},
	}
	for _, tc := range cases {
		got := ForFile(tc.path)
		if got == nil {
			t.Fatalf("ForFile(%q) = nil", tc.path)
		}
		if gotType, wantType := typeName(got), typeName(tc.want); gotType != wantType {
			t.Fatalf("ForFile(%q) = %s, want %s", tc.path, gotType, wantType)
		}
	}
}

func typeName(v interface{}) string {
	switch v.(type) {
	case *pdfLoader:
		return "pdf"
	case *docxLoader:
		return "docx"
	case *htmlLoader:
		return "html"
	case *textLoader:
		return "text"
	}
	return "unknown"
}

func TestTextLoader(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("first line\nsecond line\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	sections, err := ForFile(path).Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 1 || sections[0] != "first line\nsecond line\n" {
		t.Fatalf("sections = %#v", sections)
	}
}

func TestTextLoaderEmptyFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	sections, err := ForFile(path).Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 0 {
		t.Fatalf("empty file produced %d sections", len(sections))
	}
}

func TestTextLoaderMissingFile(t *testing.T) {
	t.Parallel()
	_, err := (&textLoader{}).Load(filepath.Join(t.TempDir(), "absent.txt"))
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("got %v, want *LoadError", err)
	}
}

func TestDocxLoader(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	const docXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	if _, err := w.Write([]byte(docXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	sections, err := (&docxLoader{}).Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "First paragraph.\nSecond paragraph."
	if len(sections) != 1 || sections[0] != want {
		t.Fatalf("sections = %#v, want [%q]", sections, want)
	}
}

func TestDocxLoaderRejectsNonArchive(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.docx")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := (&docxLoader{}).Load(path)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("got %v, want *LoadError", err)
	}
}
