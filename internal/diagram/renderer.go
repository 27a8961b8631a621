package diagram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/process"
)

// Renderer defaults.
const (
	DefaultRendererBin = "mmdc"
	DefaultBackground  = "white"
	DefaultScale       = 2

	// RendererBinEnv overrides the renderer executable.
	RendererBinEnv = "MD2DOCX_RENDERER_BIN"
)

// maxStderr caps the diagnostic text kept from a failed render.
const maxStderr = 4 << 10

// Sentinel errors for diagram rendering.
var (
	ErrRenderFailure       = errors.New("diagram render failed")
	ErrRenderOutputMissing = errors.New("diagram renderer produced no output")
	ErrRendererNotFound    = errors.New("diagram renderer not found")
)

// Renderer turns a diagram source file into a raster image file.
type Renderer interface {
	Render(ctx context.Context, inputPath, outputPath string) error
}

// RenderError reports a renderer process that exited with a non-zero code.
// It matches ErrRenderFailure with errors.Is.
type RenderError struct {
	Bin      string
	ExitCode int
	Stderr   string
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("%s: %s exited with code %d", ErrRenderFailure, e.Bin, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap lets errors.Is(err, ErrRenderFailure) match.
func (e *RenderError) Unwrap() error {
	return ErrRenderFailure
}

// CommandRenderer renders diagrams by spawning an external process:
//
//	<bin> -i <input> -o <output> -b <background> -s <scale>
type CommandRenderer struct {
	Bin        string
	Background string
	Scale      int
}

// NewCommandRenderer creates a CommandRenderer for bin. An empty bin falls
// back to $MD2DOCX_RENDERER_BIN, then to DefaultRendererBin.
func NewCommandRenderer(bin string) *CommandRenderer {
	return &CommandRenderer{
		Bin:        ResolveRendererBin(bin),
		Background: DefaultBackground,
		Scale:      DefaultScale,
	}
}

// ResolveRendererBin applies the executable lookup order used by
// NewCommandRenderer: explicit value, environment, default.
func ResolveRendererBin(bin string) string {
	if bin != "" {
		return bin
	}
	if env := os.Getenv(RendererBinEnv); env != "" {
		return env
	}
	return DefaultRendererBin
}

// Args returns the command-line arguments for one render.
func (r *CommandRenderer) Args(inputPath, outputPath string) []string {
	background := r.Background
	if background == "" {
		background = DefaultBackground
	}
	scale := r.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	return []string{
		"-i", inputPath,
		"-o", outputPath,
		"-b", background,
		"-s", strconv.Itoa(scale),
	}
}

// Render runs the renderer once. It blocks until the process exits or ctx is
// cancelled, in which case the whole process group is killed and ctx.Err()
// is returned. Failures are not retried.
func (r *CommandRenderer) Render(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, r.Bin, r.Args(inputPath, outputPath)...) // #nosec G204 -- renderer is user-configured
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	process.Isolate(cmd)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &RenderError{
				Bin:      r.Bin,
				ExitCode: exitErr.ExitCode(),
				Stderr:   truncate(strings.TrimSpace(stderr.String()), maxStderr),
			}
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRendererNotFound, r.Bin)
		}
		return fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	if !fileutil.FileExists(outputPath) {
		return fmt.Errorf("%w: %s", ErrRenderOutputMissing, outputPath)
	}
	return nil
}

// Available reports whether the renderer executable can be found.
// Returns the resolved path when it can.
func (r *CommandRenderer) Available() (string, bool) {
	path, err := exec.LookPath(r.Bin)
	if err != nil {
		return "", false
	}
	return path, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Compile-time interface check.
var _ Renderer = (*CommandRenderer)(nil)
