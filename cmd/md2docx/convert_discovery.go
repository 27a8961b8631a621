package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/fileutil"
)

// ErrInvalidExtension indicates an input file that is not Markdown.
var ErrInvalidExtension = errors.New("file must have a .md extension")

// defaultMergedName is the output base name when several files are merged
// without an explicit output path.
const defaultMergedName = "merged"

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles expands inputs into one conversion per Markdown file.
// Directories contribute the .md files directly inside them, ordered by cmp.
// output is a directory, or a file path when it ends with ext and only one
// file is converted.
func discoverFiles(inputs []string, output, ext string, cmp md2docx.CompareFunc) ([]FileToConvert, error) {
	var files []FileToConvert
	for _, input := range inputs {
		paths, err := expandInput(input, cmp)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			files = append(files, FileToConvert{InputPath: p})
		}
	}

	if isOutputFile(output, ext) && len(files) > 1 {
		return nil, fmt.Errorf("%w: output %s is a file but %d documents would be written", ErrUsage, output, len(files))
	}

	seen := make(map[string]string, len(files))
	for i := range files {
		out := resolveOutputPath(files[i].InputPath, output, ext)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrUsage, prev, files[i].InputPath, out)
		}
		seen[out] = files[i].InputPath
		files[i].OutputPath = out
	}
	return files, nil
}

// expandInput returns the Markdown files an input names.
func expandInput(input string, cmp md2docx.CompareFunc) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", md2docx.ErrInputNotFound, input)
		}
		return nil, fmt.Errorf("%w: %s: %v", md2docx.ErrReadFailure, input, err)
	}
	if info.IsDir() {
		return md2docx.DiscoverMarkdown(input, cmp)
	}
	if err := validateMarkdownExtension(input); err != nil {
		return nil, err
	}
	return []string{input}, nil
}

// resolveOutputPath determines the output path for a markdown file.
func resolveOutputPath(inputPath, output, ext string) string {
	if output == "" {
		return fileutil.ReplaceExt(inputPath, ext)
	}
	if isOutputFile(output, ext) {
		return output
	}
	return filepath.Join(output, fileutil.ReplaceExt(filepath.Base(inputPath), ext))
}

// mergedOutputPath determines where a merged document goes.
// A single directory input defaults to <dir><ext> beside it; other inputs
// default to merged<ext> beside the first one.
func mergedOutputPath(inputs []string, output, ext string) string {
	if isOutputFile(output, ext) {
		return output
	}

	var name, dir string
	if len(inputs) == 1 && fileutil.DirExists(inputs[0]) {
		clean := filepath.Clean(inputs[0])
		name = filepath.Base(clean) + ext
		dir = filepath.Dir(clean)
		if name == "."+ext || name == string(filepath.Separator)+ext {
			abs, err := filepath.Abs(clean)
			if err == nil {
				name = filepath.Base(abs) + ext
			}
		}
	} else {
		name = defaultMergedName + ext
		dir = filepath.Dir(inputs[0])
	}

	if output != "" {
		dir = output
	}
	return filepath.Join(dir, name)
}

// isOutputFile reports whether output names a file rather than a directory.
func isOutputFile(output, ext string) bool {
	return output != "" && strings.EqualFold(filepath.Ext(output), ext)
}

// validateMarkdownExtension checks that the file has a .md extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}
