package assets

// Notes:
// - Symlink escape is covered on platforms where os.Symlink works; the test
//   skips when it cannot create the link.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const minimalStyles = `<?xml version="1.0"?><w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"></w:styles>`

func writeStyle(t *testing.T, base, name, content string) {
	t.Helper()

	dir := filepath.Join(base, "styles")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".xml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ---------------------------------------------------------------------------
// TestNewFilesystemLoader - Base path validation
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"valid directory", t.TempDir(), nil},
		{"empty path", "", ErrInvalidBasePath},
		{"missing directory", filepath.Join(t.TempDir(), "absent"), ErrInvalidBasePath},
		{"file instead of directory", file, ErrInvalidBasePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader, err := NewFilesystemLoader(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewFilesystemLoader() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && !filepath.IsAbs(loader.BasePath()) {
				t.Errorf("BasePath() = %q, want absolute", loader.BasePath())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader_LoadStyle - Reading custom style sets
// ---------------------------------------------------------------------------

func TestFilesystemLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeStyle(t, base, "house", minimalStyles)
	writeStyle(t, base, "broken", "body { color: red; }")

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("existing style", func(t *testing.T) {
		t.Parallel()

		content, err := loader.LoadStyle("house")
		if err != nil || string(content) != minimalStyles {
			t.Errorf("LoadStyle() = %q, %v", content, err)
		}
	})

	t.Run("missing style", func(t *testing.T) {
		t.Parallel()

		if _, err := loader.LoadStyle("other"); !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
		}
	})

	t.Run("not a styles part", func(t *testing.T) {
		t.Parallel()

		if _, err := loader.LoadStyle("broken"); !errors.Is(err, ErrInvalidStyle) {
			t.Errorf("LoadStyle() error = %v, want ErrInvalidStyle", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		if _, err := loader.LoadStyle("a/b"); !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadStyle() error = %v, want ErrInvalidAssetName", err)
		}
	})
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	writeStyle(t, outside, "secret", minimalStyles)

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "styles"), 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "styles", "escape.xml")
	if err := os.Symlink(filepath.Join(outside, "styles", "secret.xml"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loader.LoadStyle("escape"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("LoadStyle() error = %v, want ErrPathTraversal", err)
	}
}
