// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2docx/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a known CI environment variable is set.
func inCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForRendererNotFound returns hints for a missing diagram renderer.
// Suggests how to install mmdc and how to point at another executable.
func ForRendererNotFound(envVar string) string {
	hints := []string{"install it with: npm install -g @mermaid-js/mermaid-cli"}

	if os.Getenv(envVar) == "" {
		hints = append(hints, "or set "+envVar+" to the renderer path")
	}

	// mmdc drives headless Chromium, which needs --no-sandbox as root in
	// containers.
	if inCI() || IsInContainer() {
		hints = append(hints, "in Docker/CI, mmdc needs a puppeteer config with --no-sandbox")
	}

	hints = append(hints, "or use --no-diagrams")
	return formatHints(hints)
}

// ForRenderFailure returns a hint for diagrams that failed to render.
func ForRenderFailure() string {
	return format("check the diagram syntax; drop --strict-diagrams to keep failed diagrams as code")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("documents with many new diagrams take longer; use --timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2docx/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-md2docx) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-md2docx") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForCacheDirectory returns hints for diagram cache directory errors.
func ForCacheDirectory(envVar string) string {
	return format("use --cache-dir or set " + envVar + " to a writable directory")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
