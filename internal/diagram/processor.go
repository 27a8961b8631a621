package diagram

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Warning reports a diagram that could not be rendered. The block keeps its
// original fenced text in the output.
type Warning struct {
	Index int // position of the block in the document, 0-based
	Line  int // 1-based line of the opening fence
	Err   error
}

func (w Warning) Error() string {
	return fmt.Sprintf("diagram %d (line %d): %v", w.Index+1, w.Line, w.Err)
}

// Unwrap returns the underlying render error.
func (w Warning) Unwrap() error {
	return w.Err
}

// Processor replaces every diagram block of a document with an image.
type Processor struct {
	scanner *Scanner
	cache   *Cache
	workers int
}

// NewProcessor creates a Processor. workers bounds how many diagrams of one
// document are resolved concurrently; values below 1 select runtime.NumCPU().
func NewProcessor(scanner *Scanner, cache *Cache, workers int) *Processor {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Processor{scanner: scanner, cache: cache, workers: workers}
}

// Cache returns the cache used to resolve diagrams.
func (p *Processor) Cache() *Cache {
	return p.cache
}

// Process returns text with each diagram block replaced by an embedded image.
//
// Blocks are resolved concurrently. A block whose render or image read fails
// is left as-is and reported in the returned warnings, ordered by block. The
// error is non-nil only when ctx is cancelled.
func (p *Processor) Process(ctx context.Context, text string) (string, []Warning, error) {
	blocks := p.scanner.Scan(text)
	if len(blocks) == 0 {
		return text, nil, nil
	}

	images := make([][]byte, len(blocks))
	errs := make([]error, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, block := range blocks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := p.cache.Resolve(gctx, block.Source)
			if err != nil {
				errs[i] = err
				return nil
			}
			data, err := os.ReadFile(path) // #nosec G304 -- path is inside the cache dir
			if err != nil {
				errs[i] = fmt.Errorf("%w: %v", ErrRenderOutputMissing, err)
				return nil
			}
			images[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", nil, err
	}
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	var warnings []Warning
	for i, err := range errs {
		if err == nil {
			continue
		}
		warnings = append(warnings, Warning{
			Index: i,
			Line:  LineOf(text, blocks[i].Start),
			Err:   err,
		})
	}

	return Rewrite(text, blocks, images), warnings, nil
}
