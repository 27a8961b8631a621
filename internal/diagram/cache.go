package diagram

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/alnah/go-md2docx/internal/fileutil"
)

// Cache file extensions.
const (
	SourceExt = ".mmd"
	ImageExt  = ".png"
)

// ErrCacheDir indicates the cache directory could not be prepared.
var ErrCacheDir = errors.New("diagram cache directory unavailable")

// Cache maps diagram source text to a rendered image on disk.
//
// Entries are content-addressed: the file name is the SHA-256 of the trimmed
// source, so identical diagrams share one image no matter which document
// they come from. Cache is safe for concurrent use; two goroutines resolving
// the same source at once may both render, producing the same bytes.
// Renders go to a temporary file that is renamed into place only on success,
// so an image in the cache is always a complete render.
type Cache struct {
	dir      string
	renderer Renderer
	hits     atomic.Int64
	misses   atomic.Int64
}

// Stats counts cache lookups since the Cache was created.
type Stats struct {
	Hits   int64
	Misses int64
}

// NewCache creates a Cache rooted at dir that renders misses with renderer.
// The directory is created lazily on the first miss.
func NewCache(dir string, renderer Renderer) *Cache {
	return &Cache{dir: dir, renderer: renderer}
}

// Key returns the cache key of a diagram source.
func Key(source string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(source)))
	return hex.EncodeToString(sum[:])
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// ImagePath returns where the rendered image for source lives (or would live).
func (c *Cache) ImagePath(source string) string {
	return filepath.Join(c.dir, Key(source)+ImageExt)
}

// Resolve returns the path of the rendered image for source, rendering it
// first if the cache has no entry. Render errors are returned unchanged.
func (c *Cache) Resolve(ctx context.Context, source string) (string, error) {
	key := Key(source)
	imagePath := filepath.Join(c.dir, key+ImageExt)

	if fileutil.FileExists(imagePath) {
		c.hits.Add(1)
		return imagePath, nil
	}
	c.misses.Add(1)

	if err := os.MkdirAll(c.dir, fileutil.DirPermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCacheDir, err)
	}

	sourcePath := filepath.Join(c.dir, key+SourceExt)
	if err := fileutil.WriteFileAtomic(sourcePath, []byte(strings.TrimSpace(source))); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCacheDir, err)
	}

	tmpPath, err := c.tempImagePath(key)
	if err != nil {
		return "", err
	}
	if err := c.renderer.Render(ctx, sourcePath, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	if !fileutil.FileExists(tmpPath) {
		return "", fmt.Errorf("%w: %s", ErrRenderOutputMissing, imagePath)
	}
	if err := os.Rename(tmpPath, imagePath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %v", ErrCacheDir, err)
	}
	return imagePath, nil
}

// tempImagePath reserves a unique name next to the final image. The file is
// removed again so the renderer has to create it.
func (c *Cache) tempImagePath(key string) (string, error) {
	f, err := os.CreateTemp(c.dir, key+"-*"+ImageExt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCacheDir, err)
	}
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCacheDir, err)
	}
	return name, nil
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Clear deletes every file in the cache directory and returns how many were
// removed. A missing directory is an empty cache, not an error.
func (c *Cache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrCacheDir, err)
	}

	var errs []error
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// DefaultCacheDir returns the per-user cache location for rendered diagrams,
// falling back to the system temp directory.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "go-md2docx", "diagrams")
}
