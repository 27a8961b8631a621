package pipeline

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Image references whose target may be a relative path.
var (
	// ![alt](target "title") - target without spaces or angle brackets
	markdownImage = regexp.MustCompile(`(!\[[^\]]*\]\()([^)\s<>]+)((?:\s+"[^"]*")?\))`)

	// <img ... src="target" ...>
	htmlImageSrc = regexp.MustCompile(`(<img\b[^>]*?\bsrc\s*=\s*["'])([^"']+)(["'])`)
)

// RewriteRelativePaths makes relative image targets in a Markdown source
// absolute, resolved against sourceDir. Once several sources are merged into
// one text the engine can no longer tell which directory an image belongs to.
// If sourceDir is empty, returns the content unchanged.
//
// Rewrites:
//   - ![alt](path) Markdown images
//   - <img src="path"> raw HTML images
//
// Leaves alone:
//   - URLs, data URIs, anchors and absolute paths
//   - paths escaping sourceDir
//   - anything inside fenced code blocks
func RewriteRelativePaths(content, sourceDir string) (string, error) {
	if sourceDir == "" {
		return content, nil
	}

	// Make sourceDir absolute for consistent path resolution
	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	lines := strings.SplitAfter(content, "\n")
	var fenceChar byte
	var fenceLen int
	for i, line := range lines {
		if c, n, info, ok := fenceMarker(line); ok {
			switch {
			case fenceLen == 0:
				fenceChar, fenceLen = c, n
			case c == fenceChar && n >= fenceLen && info == "":
				fenceLen = 0
			}
			continue
		}
		if fenceLen > 0 {
			continue
		}
		lines[i] = rewriteLine(line, absSourceDir)
	}

	return strings.Join(lines, ""), nil
}

func rewriteLine(line, sourceDir string) string {
	if !strings.Contains(line, "](") && !strings.Contains(line, "<img") {
		return line
	}
	replace := func(re *regexp.Regexp) {
		line = re.ReplaceAllStringFunc(line, func(m string) string {
			parts := re.FindStringSubmatch(m)
			target := parts[2]
			if !isRelativePath(target) {
				return m
			}
			absPath := filepath.Join(sourceDir, filepath.FromSlash(target))

			// Security: validate path is under sourceDir (prevent traversal)
			if !isPathUnderDir(absPath, sourceDir) {
				return m
			}
			return parts[1] + filepath.ToSlash(absPath) + parts[3]
		})
	}
	replace(markdownImage)
	replace(htmlImageSrc)
	return line
}

// fenceMarker recognizes a ``` or ~~~ line indented by at most three spaces
// and returns its character, length and trimmed info string.
func fenceMarker(line string) (byte, int, string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return 0, 0, "", false
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return 0, 0, "", false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return 0, 0, "", false
	}
	return c, n, strings.TrimSpace(trimmed[n:]), true
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" {
		return false
	}

	// Skip URLs (http, https, file, data, protocol-relative)
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "file://") ||
		strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(path, "//") {
		return false
	}

	// Skip anchors
	if strings.HasPrefix(path, "#") {
		return false
	}

	// Skip absolute paths
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return false
	}

	return true
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	// Ensure dir ends with separator for correct prefix matching
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	// Path is under dir if it starts with dir/ or equals dir
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}
