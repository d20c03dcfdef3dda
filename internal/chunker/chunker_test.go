package chunker

import (
	"errors"
	"strings"
	"testing"
)

func TestNewRejectsBadConfig(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		maxSize int
		overlap int
	}{
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
		{"zero size", 0, 0},
		{"negative overlap", 100, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.maxSize, tc.overlap)
			if err == nil {
				t.Fatalf("New(%d, %d) accepted invalid config", tc.maxSize, tc.overlap)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("New(%d, %d) returned %T, want *ConfigError", tc.maxSize, tc.overlap, err)
			}
		})
	}
}

func TestSplitEmptyInput(t *testing.T) {
	t.Parallel()
	c, err := New(1000, 200)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Split(""); len(got) != 0 {
		t.Fatalf("Split(\"\") = %d chunks, want 0", len(got))
	}
}

func TestSplitShortInputSingleChunk(t *testing.T) {
	t.Parallel()
	c, _ := New(1000, 200)
	got := c.Split("hello world")
	if len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("Split short input = %#v, want single identical chunk", got)
	}
}

func TestSplitSizesAndOverlap(t *testing.T) {
	t.Parallel()
	c, _ := New(1000, 200)
	text := strings.Repeat("abcdefgh", 300) // 2400 chars
	chunks := c.Split(text)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 2400 chars, got %d", len(chunks))
	}
	if len(chunks[0]) != 1000 || len(chunks[1]) != 1000 {
		t.Fatalf("leading chunk lengths = %d, %d, want 1000 each", len(chunks[0]), len(chunks[1]))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-200:]
		head := chunks[i][:200]
		if prevTail != head {
			t.Fatalf("chunk %d does not overlap its predecessor by 200 chars", i)
		}
	}
}

func TestSplitRoundTrip(t *testing.T) {
	t.Parallel()
	c, _ := New(50, 10)
	inputs := []string{
		strings.Repeat("x", 49),
		strings.Repeat("0123456789", 12),
		"Лорем ипсум долор сит амет " + strings.Repeat("ж", 90),
	}
	for _, text := range inputs {
		chunks := c.Split(text)
		var b strings.Builder
		for i, chunk := range chunks {
			runes := []rune(chunk)
			if i == 0 {
				b.WriteString(chunk)
				continue
			}
			b.WriteString(string(runes[10:]))
		}
		if b.String() != text {
			t.Fatalf("round trip failed for %d-rune input", len([]rune(text)))
		}
		for _, chunk := range chunks {
			if n := len([]rune(chunk)); n > 50 {
				t.Fatalf("chunk exceeds max size: %d runes", n)
			}
		}
	}
}
