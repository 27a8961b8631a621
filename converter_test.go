package md2docx

// Notes:
// - The diagram renderer is always a stub (stubRenderer); no test spawns a
//   real renderer process.
// - mockEngine replaces the .docx engine where a test only checks what the
//   converter hands to the engine; the end-to-end tests use the real engine.
// - Every test gets its own cache directory through WithCacheDir so cache
//   hits never leak between tests.

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alnah/go-md2docx/internal/docx"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// stubRenderer writes a 1x1 PNG for every diagram whose source does not
// contain "fail".
type stubRenderer struct {
	calls atomic.Int32
}

func (r *stubRenderer) Render(_ context.Context, inputPath, outputPath string) error {
	r.calls.Add(1)
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	if strings.Contains(string(src), "fail") {
		return fmt.Errorf("%w: syntax error", ErrRenderFailure)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		return err
	}
	return os.WriteFile(outputPath, buf.Bytes(), 0o600)
}

type mockEngine struct {
	mu     sync.Mutex
	calls  int
	req    docx.Request
	output any
	err    error
	panic  bool
}

func (m *mockEngine) Render(_ context.Context, req docx.Request) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.req = req
	if m.panic {
		panic("engine exploded")
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("DOCX"), nil
}

func (m *mockEngine) markdown() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.req.Markdown)
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()

	base := []Option{
		WithCacheDir(t.TempDir()),
		WithDiagramRenderer(&stubRenderer{}),
	}
	conv, err := NewConverter(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewConverter() unexpected error: %v", err)
	}
	return conv
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestNewConverter - Construction and option validation
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	invalidStyle := filepath.Join(t.TempDir(), "styles.xml")
	writeFile(t, invalidStyle, "<notstyles/>")

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"defaults", nil, nil},
		{"builtin style", []Option{WithStyle("compact")}, nil},
		{"valid page", []Option{WithPageSettings(&PageSettings{Size: "a4", Orientation: "landscape", Margin: 0.5})}, nil},
		{"unknown style", []Option{WithStyle("nope")}, ErrStyleNotFound},
		{"invalid style file", []Option{WithStyle(invalidStyle)}, ErrInvalidStyle},
		{"missing asset path", []Option{WithAssetPath(filepath.Join(t.TempDir(), "missing"))}, ErrInvalidAssetPath},
		{"invalid page size", []Option{WithPageSettings(&PageSettings{Size: "a5", Orientation: "portrait", Margin: 1})}, ErrInvalidPageSize},
		{"invalid margin", []Option{WithPageSettings(&PageSettings{Size: "a4", Orientation: "portrait", Margin: 9})}, ErrInvalidMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv, err := NewConverter(append([]Option{WithCacheDir(t.TempDir())}, tt.opts...)...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewConverter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewConverter() unexpected error: %v", err)
			}
			if conv == nil {
				t.Fatal("NewConverter() returned nil converter")
			}
		})
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) should panic")
		}
	}()
	WithTimeout(0)
}

// ---------------------------------------------------------------------------
// TestConvert - Single-source pipeline
// ---------------------------------------------------------------------------

func TestConvert_EndToEnd(t *testing.T) {
	t.Parallel()

	renderer := &stubRenderer{}
	conv := newTestConverter(t, WithDiagramRenderer(renderer), WithDiagramLanguage("diagram"))

	result, err := conv.Convert(context.Background(), "# T\n\n```diagram\nA\n```", ConversionOptions{RenderDiagrams: true})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if len(result.DOCX) == 0 {
		t.Fatal("Convert() returned empty document")
	}
	zr, err := zip.NewReader(bytes.NewReader(result.DOCX), int64(len(result.DOCX)))
	if err != nil {
		t.Fatalf("document is not a zip archive: %v", err)
	}
	var body []byte
	hasMedia := false
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/media/") {
			hasMedia = true
		}
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
	}
	if body == nil {
		t.Fatal("document has no word/document.xml")
	}
	if bytes.Contains(body, []byte("```diagram")) {
		t.Error("document body still contains the diagram fence")
	}
	if !hasMedia {
		t.Error("document has no image under word/media/")
	}
	if strings.Contains(result.Markdown, "```diagram") {
		t.Error("merged markdown still contains the diagram fence")
	}
	if !strings.Contains(result.Markdown, "data:image/png;base64,") {
		t.Error("merged markdown has no inline image")
	}
	if got := renderer.calls.Load(); got != 1 {
		t.Errorf("renderer calls = %d, want 1", got)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

func TestConvert_Diagrams(t *testing.T) {
	t.Parallel()

	t.Run("disabled leaves fences alone", func(t *testing.T) {
		t.Parallel()

		renderer := &stubRenderer{}
		engine := &mockEngine{}
		conv := newTestConverter(t, WithDiagramRenderer(renderer), withEngine(engine))

		_, err := conv.Convert(context.Background(), "```mermaid\nA\n```\n", ConversionOptions{})
		if err != nil {
			t.Fatalf("Convert() unexpected error: %v", err)
		}
		if renderer.calls.Load() != 0 {
			t.Error("renderer called with diagrams disabled")
		}
		if !strings.Contains(engine.markdown(), "```mermaid") {
			t.Error("fence removed with diagrams disabled")
		}
	})

	t.Run("failure is a warning", func(t *testing.T) {
		t.Parallel()

		engine := &mockEngine{}
		conv := newTestConverter(t, withEngine(engine))

		md := "intro\n\n```mermaid\nfail\n```\n\n```mermaid\nok\n```\n"
		result, err := conv.Convert(context.Background(), md, ConversionOptions{RenderDiagrams: true})
		if err != nil {
			t.Fatalf("Convert() unexpected error: %v", err)
		}
		if len(result.Warnings) != 1 {
			t.Fatalf("warnings = %v, want 1", result.Warnings)
		}
		w := result.Warnings[0]
		if w.Index != 0 || w.Line != 3 || !errors.Is(w, ErrRenderFailure) {
			t.Errorf("warning = %+v, want index 0, line 3, ErrRenderFailure", w)
		}
		if !strings.Contains(engine.markdown(), "```mermaid\nfail\n```") {
			t.Error("failed block should keep its fence")
		}
		if strings.Contains(engine.markdown(), "```mermaid\nok") {
			t.Error("rendered block should be replaced")
		}
	})

	t.Run("strict mode fails", func(t *testing.T) {
		t.Parallel()

		engine := &mockEngine{}
		conv := newTestConverter(t, withEngine(engine))

		_, err := conv.Convert(context.Background(), "```mermaid\nfail\n```\n", ConversionOptions{RenderDiagrams: true, StrictDiagrams: true})
		if !errors.Is(err, ErrDiagramsFailed) {
			t.Errorf("Convert() error = %v, want ErrDiagramsFailed", err)
		}
		if !errors.Is(err, ErrRenderFailure) {
			t.Errorf("Convert() error = %v, should also match ErrRenderFailure", err)
		}
		if engine.calls != 0 {
			t.Error("engine called after strict diagram failure")
		}
	})

	t.Run("cache hits on repeat", func(t *testing.T) {
		t.Parallel()

		renderer := &stubRenderer{}
		conv := newTestConverter(t, WithDiagramRenderer(renderer), withEngine(&mockEngine{}))

		md := "```mermaid\ngraph TD\n```\n"
		for i := 0; i < 2; i++ {
			if _, err := conv.Convert(context.Background(), md, ConversionOptions{RenderDiagrams: true}); err != nil {
				t.Fatalf("Convert() #%d unexpected error: %v", i, err)
			}
		}
		if got := renderer.calls.Load(); got != 1 {
			t.Errorf("renderer calls = %d, want 1", got)
		}
		if got := conv.CacheStats(); got != (CacheStats{Hits: 1, Misses: 1}) {
			t.Errorf("CacheStats() = %+v, want 1 hit, 1 miss", got)
		}

		n, err := conv.ClearCache()
		if err != nil {
			t.Fatalf("ClearCache() unexpected error: %v", err)
		}
		if n != 2 {
			t.Errorf("ClearCache() removed %d files, want 2 (source and image)", n)
		}
	})
}

func TestConvert_FrontMatter(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{}
	conv := newTestConverter(t, withEngine(engine))

	md := "---\ntitle: Annual Report\nauthor: Ada\nkeywords: [finance, 2026]\n---\n# Body\n"
	result, err := conv.Convert(context.Background(), md, ConversionOptions{})
	if err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}

	if result.Metadata.Title != "Annual Report" || result.Metadata.Author != "Ada" {
		t.Errorf("Metadata = %+v", result.Metadata)
	}
	if engine.req.Properties.Title != "Annual Report" {
		t.Errorf("engine Properties.Title = %q, want %q", engine.req.Properties.Title, "Annual Report")
	}
	if strings.Contains(engine.markdown(), "title:") {
		t.Error("front matter was passed to the engine")
	}
}

func TestConvert_EngineOutput(t *testing.T) {
	t.Parallel()

	engineFailure := errors.New("boom")

	tests := []struct {
		name    string
		engine  *mockEngine
		want    string
		wantErr error
	}{
		{"byte slice", &mockEngine{output: []byte("bytes")}, "bytes", nil},
		{"buffer", &mockEngine{output: bytes.NewBufferString("buffer")}, "buffer", nil},
		{"reader", &mockEngine{output: strings.NewReader("reader")}, "reader", nil},
		{"unsupported type", &mockEngine{output: 42}, "", ErrUnexpectedOutputType},
		{"engine error", &mockEngine{err: engineFailure}, "", ErrRenderEngine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t, withEngine(tt.engine))
			result, err := conv.Convert(context.Background(), "text", ConversionOptions{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Convert() unexpected error: %v", err)
			}
			if string(result.DOCX) != tt.want {
				t.Errorf("DOCX = %q, want %q", result.DOCX, tt.want)
			}
		})
	}
}

func TestConvert_RecoversPanic(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withEngine(&mockEngine{panic: true}))

	_, err := conv.Convert(context.Background(), "text", ConversionOptions{})
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("Convert() error = %v, want internal error", err)
	}
}

func TestConvert_InvalidSeparator(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withEngine(&mockEngine{}))

	_, err := conv.Convert(context.Background(), "text", ConversionOptions{Separator: "wavy"})
	if !errors.Is(err, ErrInvalidSeparator) {
		t.Errorf("Convert() error = %v, want ErrInvalidSeparator", err)
	}
}

func TestConvert_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := newTestConverter(t)
	_, err := conv.Convert(ctx, "```mermaid\nA\n```\n", ConversionOptions{RenderDiagrams: true})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

func TestConvertHTML(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{}
	conv := newTestConverter(t, withEngine(engine))

	result, err := conv.ConvertHTML(context.Background(), "# Preview\n\n```go\nx := 1\n```\n", ConversionOptions{})
	if err != nil {
		t.Fatalf("ConvertHTML() unexpected error: %v", err)
	}
	html := string(result.HTML)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<style>") {
		t.Errorf("HTML preview missing heading or styles: %s", html)
	}
	if result.DOCX != nil {
		t.Error("ConvertHTML() should not produce a document")
	}
	if engine.calls != 0 {
		t.Error("engine called for HTML preview")
	}
}

// ---------------------------------------------------------------------------
// TestConvertFile - Single file with atomic write
// ---------------------------------------------------------------------------

func TestConvertFile(t *testing.T) {
	t.Parallel()

	t.Run("default output next to input", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := filepath.Join(dir, "notes.md")
		writeFile(t, input, "# Notes\n")

		conv := newTestConverter(t, withEngine(&mockEngine{output: []byte("payload")}))
		if _, err := conv.ConvertFile(context.Background(), input, "", ConversionOptions{}); err != nil {
			t.Fatalf("ConvertFile() unexpected error: %v", err)
		}

		got, err := os.ReadFile(filepath.Join(dir, "notes.docx"))
		if err != nil {
			t.Fatalf("output not written: %v", err)
		}
		if string(got) != "payload" {
			t.Errorf("output = %q, want %q", got, "payload")
		}
	})

	t.Run("relative images become absolute", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := filepath.Join(dir, "doc.md")
		writeFile(t, input, "![logo](img/logo.png)\n")

		engine := &mockEngine{}
		conv := newTestConverter(t, withEngine(engine))
		if _, err := conv.ConvertFile(context.Background(), input, filepath.Join(dir, "out", "doc.docx"), ConversionOptions{}); err != nil {
			t.Fatalf("ConvertFile() unexpected error: %v", err)
		}

		want := filepath.ToSlash(filepath.Join(dir, "img", "logo.png"))
		if !strings.Contains(engine.markdown(), want) {
			t.Errorf("markdown %q does not reference %q", engine.markdown(), want)
		}
	})

	t.Run("warnings carry the source path", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := filepath.Join(dir, "doc.md")
		writeFile(t, input, "```mermaid\nfail\n```\n")

		conv := newTestConverter(t, withEngine(&mockEngine{}))
		result, err := conv.ConvertFile(context.Background(), input, filepath.Join(dir, "doc.docx"), ConversionOptions{RenderDiagrams: true})
		if err != nil {
			t.Fatalf("ConvertFile() unexpected error: %v", err)
		}
		if len(result.Warnings) != 1 || result.Warnings[0].Source != input {
			t.Errorf("Warnings = %+v, want one from %s", result.Warnings, input)
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		writeFile(t, blocker, "a file, not a directory")
		input := filepath.Join(dir, "in.md")
		writeFile(t, input, "text")

		conv := newTestConverter(t, withEngine(&mockEngine{}))

		tests := []struct {
			name    string
			input   string
			output  string
			wantErr error
		}{
			{"missing input", filepath.Join(dir, "missing.md"), filepath.Join(dir, "o.docx"), ErrInputNotFound},
			{"directory input", dir, filepath.Join(dir, "o.docx"), ErrNotAFile},
			{"unwritable output", input, filepath.Join(blocker, "o.docx"), ErrWriteFailure},
		}
		for _, tt := range tests {
			_, err := conv.ConvertFile(context.Background(), tt.input, tt.output, ConversionOptions{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%s: ConvertFile() error = %v, want %v", tt.name, err, tt.wantErr)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestConvertDirectory / TestConvertFiles - Merging
// ---------------------------------------------------------------------------

func TestConvertDirectory(t *testing.T) {
	t.Parallel()

	t.Run("natural order with rule separator", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "f10.md"), "TEN")
		writeFile(t, filepath.Join(dir, "f2.md"), "TWO")
		writeFile(t, filepath.Join(dir, "f1.md"), "ONE")
		writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
		writeFile(t, filepath.Join(dir, "sub", "f0.md"), "nested")

		engine := &mockEngine{}
		conv := newTestConverter(t, withEngine(engine))
		out := filepath.Join(t.TempDir(), "merged.docx")

		if _, err := conv.ConvertDirectory(context.Background(), dir, out, ConversionOptions{Separator: SeparatorRule}); err != nil {
			t.Fatalf("ConvertDirectory() unexpected error: %v", err)
		}

		md := engine.markdown()
		if !(strings.Index(md, "ONE") < strings.Index(md, "TWO") && strings.Index(md, "TWO") < strings.Index(md, "TEN")) {
			t.Errorf("sections out of order: %q", md)
		}
		if n := strings.Count(md, "\n---\n"); n != 2 {
			t.Errorf("separator count = %d, want 2", n)
		}
		if strings.Contains(md, "ignored") || strings.Contains(md, "nested") {
			t.Errorf("non-eligible files merged: %q", md)
		}
		if _, err := os.Stat(out); err != nil {
			t.Errorf("output not written: %v", err)
		}
	})

	t.Run("lexical comparator", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "f10.md"), "TEN")
		writeFile(t, filepath.Join(dir, "f2.md"), "TWO")

		engine := &mockEngine{}
		conv := newTestConverter(t, withEngine(engine))
		out := filepath.Join(t.TempDir(), "merged.docx")

		if _, err := conv.ConvertDirectory(context.Background(), dir, out, ConversionOptions{Compare: LexicalOrder}); err != nil {
			t.Fatalf("ConvertDirectory() unexpected error: %v", err)
		}
		md := engine.markdown()
		if strings.Index(md, "TEN") > strings.Index(md, "TWO") {
			t.Errorf("lexical order expected f10 first: %q", md)
		}
		if !strings.Contains(md, PageBreakMarker) {
			t.Error("default separator should be a page break")
		}
	})

	t.Run("preconditions", func(t *testing.T) {
		t.Parallel()

		empty := t.TempDir()
		writeFile(t, filepath.Join(empty, "readme.txt"), "x")
		file := filepath.Join(t.TempDir(), "doc.md")
		writeFile(t, file, "x")

		conv := newTestConverter(t, withEngine(&mockEngine{}))
		out := filepath.Join(t.TempDir(), "o.docx")

		tests := []struct {
			name    string
			dir     string
			wantErr error
		}{
			{"no markdown", empty, ErrNoEligibleFiles},
			{"missing", filepath.Join(empty, "missing"), ErrDirectoryNotFound},
			{"file", file, ErrNotADirectory},
		}
		for _, tt := range tests {
			_, err := conv.ConvertDirectory(context.Background(), tt.dir, out, ConversionOptions{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%s: ConvertDirectory() error = %v, want %v", tt.name, err, tt.wantErr)
			}
		}
		if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
			t.Error("output created despite failures")
		}
	})
}

func TestConvertFiles(t *testing.T) {
	t.Parallel()

	t.Run("given order is kept", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		b := filepath.Join(dir, "b10.md")
		a := filepath.Join(dir, "a2.md")
		writeFile(t, b, "BEE")
		writeFile(t, a, "AY")

		engine := &mockEngine{}
		conv := newTestConverter(t, withEngine(engine))

		out := filepath.Join(dir, "out.docx")
		if _, err := conv.ConvertFiles(context.Background(), []string{b, a}, out, ConversionOptions{Separator: SeparatorNone}); err != nil {
			t.Fatalf("ConvertFiles() unexpected error: %v", err)
		}
		md := engine.markdown()
		if strings.Index(md, "BEE") > strings.Index(md, "AY") {
			t.Errorf("ConvertFiles() re-sorted inputs: %q", md)
		}
		if strings.Contains(md, PageBreakMarker) || strings.Contains(md, "---") {
			t.Errorf("separator none inserted a separator: %q", md)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		conv := newTestConverter(t, withEngine(&mockEngine{}))
		_, err := conv.ConvertFiles(context.Background(), nil, filepath.Join(t.TempDir(), "o.docx"), ConversionOptions{})
		if !errors.Is(err, ErrNoInputFiles) {
			t.Errorf("ConvertFiles(nil) error = %v, want ErrNoInputFiles", err)
		}
	})

	t.Run("missing file is named", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		good := filepath.Join(dir, "good.md")
		writeFile(t, good, "ok")
		missing := filepath.Join(dir, "missing.md")
		out := filepath.Join(dir, "o.docx")

		engine := &mockEngine{}
		conv := newTestConverter(t, withEngine(engine))
		_, err := conv.ConvertFiles(context.Background(), []string{good, missing}, out, ConversionOptions{})
		if !errors.Is(err, ErrInputNotFound) {
			t.Fatalf("ConvertFiles() error = %v, want ErrInputNotFound", err)
		}
		if !strings.Contains(err.Error(), missing) {
			t.Errorf("error %q does not name %s", err, missing)
		}
		if engine.calls != 0 {
			t.Error("engine called despite missing input")
		}
		if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
			t.Error("output created despite missing input")
		}
	})
}
