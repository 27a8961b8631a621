package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2docx/internal/pipeline"
	"github.com/alnah/go-md2docx/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config value")
)

// AppDirName is the directory under the user config dir searched for named configs.
const AppDirName = "go-md2docx"

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxRendererLength    = 4096
	MaxLanguageLength    = 32  // fence info string, e.g. "mermaid"
	MaxBackgroundLength  = 32  // "white", "transparent", "#ffffff"
	MaxStyleLength       = 255 // style name or path to a styles.xml
	MaxPageSizeLength    = 10  // "letter", "a4", "legal"
	MaxOrientationLength = 10  // "portrait", "landscape"
	MaxScale             = 10
)

// Sort orders accepted by merge.sort.
const (
	SortNatural = "natural"
	SortLexical = "lexical"
)

// Config holds all configuration for document generation.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Diagrams DiagramsConfig `yaml:"diagrams"`
	Merge    MergeConfig    `yaml:"merge"`
	Page     PageConfig     `yaml:"page"`
	Style    string         `yaml:"style"` // Embedded style name or path to a styles.xml (empty = default)
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// DiagramsConfig controls mermaid preprocessing.
type DiagramsConfig struct {
	Enabled    *bool  `yaml:"enabled"`    // nil = enabled
	Renderer   string `yaml:"renderer"`   // Renderer executable (empty = mmdc on PATH)
	CacheDir   string `yaml:"cacheDir"`   // Empty = per-user cache dir
	Language   string `yaml:"language"`   // Fence tag (empty = "mermaid")
	Scale      int    `yaml:"scale"`      // 0 = renderer default
	Background string `yaml:"background"` // Empty = "white"
}

// IsEnabled reports whether diagrams should be rendered.
func (d DiagramsConfig) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// MergeConfig controls directory merging.
type MergeConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Separator string `yaml:"separator"` // "pagebreak", "rule", "none" (default: "pagebreak")
	Sort      string `yaml:"sort"`      // "natural", "lexical" (default: "natural")
}

// PageConfig defines document page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 1)
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"diagrams.renderer", c.Diagrams.Renderer, MaxRendererLength},
		{"diagrams.cacheDir", c.Diagrams.CacheDir, MaxPathLength},
		{"diagrams.language", c.Diagrams.Language, MaxLanguageLength},
		{"diagrams.background", c.Diagrams.Background, MaxBackgroundLength},
		{"style", c.Style, MaxStyleLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Diagrams.Scale < 0 || c.Diagrams.Scale > MaxScale {
		return fmt.Errorf("%w: diagrams.scale must be between 0 and %d, got %d", ErrInvalidField, MaxScale, c.Diagrams.Scale)
	}
	if strings.ContainsAny(c.Diagrams.Language, " \t\n`") {
		return fmt.Errorf("%w: diagrams.language %q must be a single word", ErrInvalidField, c.Diagrams.Language)
	}

	if c.Merge.Separator != "" {
		if _, err := pipeline.ParseSeparator(c.Merge.Separator); err != nil {
			return fmt.Errorf("merge.separator: %w", err)
		}
	}
	switch strings.ToLower(c.Merge.Sort) {
	case "", SortNatural, SortLexical:
	default:
		return fmt.Errorf("%w: merge.sort %q (must be natural or lexical)", ErrInvalidField, c.Merge.Sort)
	}

	switch strings.ToLower(c.Page.Size) {
	case "", "letter", "a4", "legal":
	default:
		return fmt.Errorf("%w: page.size %q (must be letter, a4, or legal)", ErrInvalidField, c.Page.Size)
	}
	switch strings.ToLower(c.Page.Orientation) {
	case "", "portrait", "landscape":
	default:
		return fmt.Errorf("%w: page.orientation %q (must be portrait or landscape)", ErrInvalidField, c.Page.Orientation)
	}
	if c.Page.Margin < 0 {
		return fmt.Errorf("%w: page.margin must not be negative, got %.2f", ErrInvalidField, c.Page.Margin)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with diagrams enabled and merging off.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths returns the locations LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}
	return paths
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries the current directory first, then ~/.config/go-md2docx/.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
