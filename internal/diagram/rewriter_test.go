package diagram

import (
	"encoding/base64"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRewrite - Offset-safe replacement
// ---------------------------------------------------------------------------

func TestRewrite(t *testing.T) {
	t.Parallel()

	t.Run("no blocks returns text unchanged", func(t *testing.T) {
		t.Parallel()

		text := "# Title\n\nbody\n"
		if got := Rewrite(text, nil, nil); got != text {
			t.Errorf("Rewrite() = %q, want %q", got, text)
		}
	})

	t.Run("replaces each block with its own image", func(t *testing.T) {
		t.Parallel()

		// Same-length sources with different content: a rewriter that
		// searched for the fence text instead of using offsets would
		// mix them up or drift after the first replacement.
		text := "before\n```mermaid\nAAA\n```\nmiddle\n```mermaid\nBBB\n```\nafter\n"
		blocks := NewScanner("").Scan(text)
		if len(blocks) != 2 {
			t.Fatalf("Scan() returned %d blocks, want 2", len(blocks))
		}

		imgA := []byte("image-a-with-a-much-longer-payload")
		imgB := []byte("b")
		got := Rewrite(text, blocks, [][]byte{imgA, imgB})

		want := "before\n" + ImageReference(imgA) + "\nmiddle\n" + ImageReference(imgB) + "\nafter\n"
		if got != want {
			t.Errorf("Rewrite() =\n%q\nwant\n%q", got, want)
		}
	})

	t.Run("nil image keeps original fence", func(t *testing.T) {
		t.Parallel()

		text := "```mermaid\nA\n```\nx\n```mermaid\nB\n```\n"
		blocks := NewScanner("").Scan(text)

		got := Rewrite(text, blocks, [][]byte{nil, []byte("png")})

		if !strings.HasPrefix(got, "```mermaid\nA\n```\nx\n") {
			t.Errorf("failed block was not preserved: %q", got)
		}
		if strings.Contains(got, "```mermaid\nB") {
			t.Errorf("rendered block was not replaced: %q", got)
		}
	})

	t.Run("all images nil is identity", func(t *testing.T) {
		t.Parallel()

		text := "a\n```mermaid\nA\n```\nb\n"
		blocks := NewScanner("").Scan(text)
		if got := Rewrite(text, blocks, make([][]byte, len(blocks))); got != text {
			t.Errorf("Rewrite() = %q, want %q", got, text)
		}
	})

	t.Run("surrounding text preserved byte for byte", func(t *testing.T) {
		t.Parallel()

		prefix := "Résumé ünïcode\r\n\n"
		suffix := "\n\ttrailing  \n"
		text := prefix + "```mermaid\nA\n```" + suffix
		blocks := NewScanner("").Scan(text)

		got := Rewrite(text, blocks, [][]byte{[]byte("x")})
		if !strings.HasPrefix(got, prefix) || !strings.HasSuffix(got, suffix) {
			t.Errorf("Rewrite() altered surrounding text: %q", got)
		}
	})
}

func TestImageReference(t *testing.T) {
	t.Parallel()

	png := []byte{0x89, 'P', 'N', 'G'}
	got := ImageReference(png)

	want := "\n\n![diagram](data:image/png;base64," + base64.StdEncoding.EncodeToString(png) + ")\n\n"
	if got != want {
		t.Errorf("ImageReference() = %q, want %q", got, want)
	}
}
