package md2docx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/natsort"
)

// DiscoverMarkdown lists the .md files directly inside dir, ordered by cmp
// (natural order when nil). Only regular files are returned; symlinks and
// subdirectories are skipped.
func DiscoverMarkdown(dir string, cmp CompareFunc) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailure, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFailure, dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !fileutil.IsMarkdown(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEligibleFiles, dir)
	}

	natsort.Sort(names, cmp)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}
