package pipeline

// Notes:
// - Absolute expectations are built with filepath so the cases hold on
//   Windows, where the rewritten target uses forward slashes.

import (
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRewriteRelativePaths - Image targets in Markdown sources
// ---------------------------------------------------------------------------

func TestRewriteRelativePaths(t *testing.T) {
	t.Parallel()

	sourceDir := t.TempDir()
	abs := func(rel string) string {
		return filepath.ToSlash(filepath.Join(sourceDir, rel))
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "relative markdown image",
			input: "![logo](img/logo.png)\n",
			want:  "![logo](" + abs("img/logo.png") + ")\n",
		},
		{
			name:  "dot slash with title",
			input: `![x](./a.png "Title")`,
			want:  "![x](" + abs("a.png") + ` "Title")`,
		},
		{
			name:  "html img",
			input: `<img src="pics/b.jpg" width="10">`,
			want:  `<img src="` + abs("pics/b.jpg") + `" width="10">`,
		},
		{
			name:  "url unchanged",
			input: "![x](https://example.com/a.png)",
			want:  "![x](https://example.com/a.png)",
		},
		{
			name:  "data uri unchanged",
			input: "![diagram](data:image/png;base64,AAAA)",
			want:  "![diagram](data:image/png;base64,AAAA)",
		},
		{
			name:  "absolute unchanged",
			input: "![x](/abs/a.png)",
			want:  "![x](/abs/a.png)",
		},
		{
			name:  "traversal unchanged",
			input: "![x](../../etc/passwd)",
			want:  "![x](../../etc/passwd)",
		},
		{
			name:  "links unchanged",
			input: "[doc](other.md)",
			want:  "[doc](other.md)",
		},
		{
			name:  "fenced code unchanged",
			input: "```md\n![x](a.png)\n```\n![y](b.png)\n",
			want:  "```md\n![x](a.png)\n```\n![y](" + abs("b.png") + ")\n",
		},
		{
			name:  "info line does not close fence",
			input: "````\n```go\n![x](a.png)\n````\n",
			want:  "````\n```go\n![x](a.png)\n````\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativePaths(tt.input, sourceDir)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("RewriteRelativePaths() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRewriteRelativePaths_EmptySourceDir(t *testing.T) {
	t.Parallel()

	input := "![x](a.png)"
	got, err := RewriteRelativePaths(input, "")
	if err != nil || got != input {
		t.Errorf("RewriteRelativePaths() = %q, %v, want unchanged", got, err)
	}
}

func TestIsRelativePath(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]bool{
		"":                  false,
		"a.png":             true,
		"./a.png":           true,
		"#anchor":           false,
		"//cdn/x.png":       false,
		"HTTPS://x/y.png":   false,
		"file:///tmp/x.png": false,
	} {
		if got := isRelativePath(path); got != want {
			t.Errorf("isRelativePath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestIsPathUnderDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(string(filepath.Separator), "docs")
	if !isPathUnderDir(filepath.Join(dir, "a", "b.png"), dir) {
		t.Error("nested path should be under dir")
	}
	if isPathUnderDir(filepath.Join(dir+"-other", "b.png"), dir) {
		t.Error("sibling with shared prefix should not be under dir")
	}
}
