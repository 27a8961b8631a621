package main

// Notes:
// - Test infrastructure shared across the CLI tests: a stub diagram
//   renderer, a recording DocumentConverter and environment builders.
// - End-to-end tests use the real library with the stub renderer injected
//   through Environment.Options and a per-test --cache-dir.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	md2docx "github.com/alnah/go-md2docx"
)

// ---------------------------------------------------------------------------
// Stub renderer
// ---------------------------------------------------------------------------

// stubRenderer writes a 1x1 PNG for every diagram whose source does not
// contain "fail".
type stubRenderer struct{}

func (stubRenderer) Render(_ context.Context, inputPath, outputPath string) error {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	if strings.Contains(string(src), "fail") {
		return fmt.Errorf("%w: syntax error", md2docx.ErrRenderFailure)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		return err
	}
	return os.WriteFile(outputPath, buf.Bytes(), 0o600)
}

// ---------------------------------------------------------------------------
// Recording converter
// ---------------------------------------------------------------------------

// recordingConverter implements DocumentConverter without touching disk.
type recordingConverter struct {
	mu    sync.Mutex
	calls []string
	err   map[string]error // by input path
	warn  map[string][]md2docx.Warning
	delay time.Duration
}

func (r *recordingConverter) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingConverter) result(key string) (*md2docx.ConvertResult, error) {
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if err := r.err[key]; err != nil {
		return nil, err
	}
	return &md2docx.ConvertResult{DOCX: []byte("PK"), Warnings: r.warn[key]}, nil
}

func (r *recordingConverter) ConvertFile(_ context.Context, in, out string, _ md2docx.ConversionOptions) (*md2docx.ConvertResult, error) {
	r.record("file " + in + " -> " + out)
	return r.result(in)
}

func (r *recordingConverter) ConvertDirectory(_ context.Context, dir, out string, _ md2docx.ConversionOptions) (*md2docx.ConvertResult, error) {
	r.record("dir " + dir + " -> " + out)
	return r.result(dir)
}

func (r *recordingConverter) ConvertFiles(_ context.Context, paths []string, out string, _ md2docx.ConversionOptions) (*md2docx.ConvertResult, error) {
	r.record("files " + strings.Join(paths, ",") + " -> " + out)
	if len(paths) == 0 {
		return nil, md2docx.ErrNoInputFiles
	}
	return r.result(paths[0])
}

// ---------------------------------------------------------------------------
// Environment and file helpers
// ---------------------------------------------------------------------------

// testEnv returns an environment writing to buffers with the stub renderer.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:     time.Now,
		Stdout:  &stdout,
		Stderr:  &stderr,
		Options: []md2docx.Option{md2docx.WithDiagramRenderer(stubRenderer{})},
	}
	return env, &stdout, &stderr
}

// writeFile creates path (and its parents) with content.
func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// assertDOCX fails unless path holds a zip archive.
func assertDOCX(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("%s is not a zip archive", path)
	}
}

// errFake is a generic failure for mocks.
var errFake = errors.New("fake failure")
