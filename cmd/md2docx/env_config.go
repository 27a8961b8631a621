package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/diagram"
)

// Environment variable names.
const (
	envConfigPath = "MD2DOCX_CONFIG"
	envRenderer   = diagram.RendererBinEnv // MD2DOCX_RENDERER_BIN
	envCacheDir   = "MD2DOCX_CACHE_DIR"
	envWorkers    = "MD2DOCX_WORKERS"
	envSeparator  = "MD2DOCX_SEPARATOR"
	envInputDir   = "MD2DOCX_INPUT_DIR"
	envOutputDir  = "MD2DOCX_OUTPUT_DIR"
	envStyle      = "MD2DOCX_STYLE"
	envTimeout    = "MD2DOCX_TIMEOUT"
	envPrefix     = "MD2DOCX_"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // MD2DOCX_CONFIG: config file name or path
	RendererBin string        // MD2DOCX_RENDERER_BIN: diagram renderer executable
	CacheDir    string        // MD2DOCX_CACHE_DIR: diagram cache directory
	Workers     int           // MD2DOCX_WORKERS: parallel workers
	Separator   string        // MD2DOCX_SEPARATOR: merge separator
	InputDir    string        // MD2DOCX_INPUT_DIR: default input directory
	OutputDir   string        // MD2DOCX_OUTPUT_DIR: default output directory
	Style       string        // MD2DOCX_STYLE: style set name or path
	Timeout     time.Duration // MD2DOCX_TIMEOUT: per-document timeout
}

// knownEnvVars lists valid MD2DOCX_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = []string{
	envConfigPath,
	envRenderer,
	envCacheDir,
	envWorkers,
	envSeparator,
	envInputDir,
	envOutputDir,
	envStyle,
	envTimeout,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv(envConfigPath),
		RendererBin: os.Getenv(envRenderer),
		CacheDir:    os.Getenv(envCacheDir),
		Separator:   os.Getenv(envSeparator),
		InputDir:    os.Getenv(envInputDir),
		OutputDir:   os.Getenv(envOutputDir),
		Style:       os.Getenv(envStyle),
	}

	if timeout := os.Getenv(envTimeout); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv(envWorkers); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2DOCX_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !slices.Contains(knownEnvVars, name) {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.RendererBin != "" && cfg.Diagrams.Renderer == "" {
		cfg.Diagrams.Renderer = env.RendererBin
	}
	if env.CacheDir != "" && cfg.Diagrams.CacheDir == "" {
		cfg.Diagrams.CacheDir = env.CacheDir
	}
	if env.Separator != "" && cfg.Merge.Separator == "" {
		cfg.Merge.Separator = env.Separator
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Style != "" && cfg.Style == "" {
		cfg.Style = env.Style
	}
}
