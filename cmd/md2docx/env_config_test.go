package main

// Notes:
// - loadEnvConfig: every MD2DOCX_* variable is covered. Invalid and
//   non-positive values for timeout and workers are ignored, not errors.
// - applyEnvConfig: env fills only fields the config file left empty.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-md2docx/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables", func(t *testing.T) {
		t.Setenv("MD2DOCX_CONFIG", "/path/to/config.yaml")
		t.Setenv("MD2DOCX_RENDERER_BIN", "/opt/mmdc")
		t.Setenv("MD2DOCX_CACHE_DIR", "/tmp/cache")
		t.Setenv("MD2DOCX_WORKERS", "3")
		t.Setenv("MD2DOCX_SEPARATOR", "rule")
		t.Setenv("MD2DOCX_INPUT_DIR", "/input")
		t.Setenv("MD2DOCX_OUTPUT_DIR", "/output")
		t.Setenv("MD2DOCX_STYLE", "compact")
		t.Setenv("MD2DOCX_TIMEOUT", "2m")

		got := *loadEnvConfig()
		want := envConfig{
			ConfigPath:  "/path/to/config.yaml",
			RendererBin: "/opt/mmdc",
			CacheDir:    "/tmp/cache",
			Workers:     3,
			Separator:   "rule",
			InputDir:    "/input",
			OutputDir:   "/output",
			Style:       "compact",
			Timeout:     2 * time.Minute,
		}
		if got != want {
			t.Errorf("loadEnvConfig() = %+v, want %+v", got, want)
		}
	})

	t.Run("unset variables are empty", func(t *testing.T) {
		for _, name := range knownEnvVars {
			t.Setenv(name, "")
		}

		if got := *loadEnvConfig(); got != (envConfig{}) {
			t.Errorf("loadEnvConfig() = %+v, want zero value", got)
		}
	})

	invalid := []struct {
		name    string
		timeout string
		workers string
	}{
		{"garbage", "soon", "many"},
		{"negative", "-1s", "-2"},
		{"zero", "0s", "0"},
	}
	for _, tt := range invalid {
		t.Run("ignores "+tt.name+" numbers", func(t *testing.T) {
			t.Setenv("MD2DOCX_TIMEOUT", tt.timeout)
			t.Setenv("MD2DOCX_WORKERS", tt.workers)

			cfg := loadEnvConfig()
			if cfg.Timeout != 0 {
				t.Errorf("Timeout = %v, want 0", cfg.Timeout)
			}
			if cfg.Workers != 0 {
				t.Errorf("Workers = %d, want 0", cfg.Workers)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MD2DOCX_STYEL", "compact")
	t.Setenv("MD2DOCX_STYLE", "compact")
	t.Setenv("MD2DOCXNOPREFIX", "x")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)
	out := buf.String()

	if !strings.Contains(out, "warning: unknown environment variable MD2DOCX_STYEL (typo?)") {
		t.Errorf("missing warning for typo, got %q", out)
	}
	if strings.Contains(out, "MD2DOCX_STYLE ") {
		t.Errorf("known variable should not warn, got %q", out)
	}
	if strings.Contains(out, "MD2DOCXNOPREFIX") {
		t.Errorf("variable without underscore prefix should be ignored, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Priority: config file > env
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	env := &envConfig{
		RendererBin: "env-mmdc",
		CacheDir:    "/env/cache",
		Separator:   "none",
		InputDir:    "/env/in",
		OutputDir:   "/env/out",
		Style:       "env-style",
	}

	t.Run("fills empty fields", func(t *testing.T) {
		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		if cfg.Diagrams.Renderer != "env-mmdc" || cfg.Diagrams.CacheDir != "/env/cache" {
			t.Errorf("Diagrams = %+v", cfg.Diagrams)
		}
		if cfg.Merge.Separator != "none" || cfg.Style != "env-style" {
			t.Errorf("Merge.Separator = %q, Style = %q", cfg.Merge.Separator, cfg.Style)
		}
		if cfg.Input.DefaultDir != "/env/in" || cfg.Output.DefaultDir != "/env/out" {
			t.Errorf("Input = %q, Output = %q", cfg.Input.DefaultDir, cfg.Output.DefaultDir)
		}
	})

	t.Run("config values win", func(t *testing.T) {
		cfg := &config.Config{
			Input:    config.InputConfig{DefaultDir: "/cfg/in"},
			Output:   config.OutputConfig{DefaultDir: "/cfg/out"},
			Diagrams: config.DiagramsConfig{Renderer: "cfg-mmdc", CacheDir: "/cfg/cache"},
			Merge:    config.MergeConfig{Separator: "rule"},
			Style:    "cfg-style",
		}
		applyEnvConfig(env, cfg)

		if cfg.Diagrams.Renderer != "cfg-mmdc" || cfg.Diagrams.CacheDir != "/cfg/cache" {
			t.Errorf("Diagrams = %+v", cfg.Diagrams)
		}
		if cfg.Merge.Separator != "rule" || cfg.Style != "cfg-style" {
			t.Errorf("Merge.Separator = %q, Style = %q", cfg.Merge.Separator, cfg.Style)
		}
		if cfg.Input.DefaultDir != "/cfg/in" || cfg.Output.DefaultDir != "/cfg/out" {
			t.Errorf("Input = %q, Output = %q", cfg.Input.DefaultDir, cfg.Output.DefaultDir)
		}
	})
}

// ---------------------------------------------------------------------------
// TestConvert_EnvironmentOverrides - End-to-end env handling
// ---------------------------------------------------------------------------

func TestConvert_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in")
	writeFile(t, filepath.Join(src, "a.md"), "# A\n")
	out := filepath.Join(dir, "out")

	t.Setenv("MD2DOCX_INPUT_DIR", src)
	t.Setenv("MD2DOCX_OUTPUT_DIR", out)
	t.Setenv("MD2DOCX_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("MD2DOCX_WORKERS", "2")
	t.Setenv("MD2DOCX_BOGUS", "1")

	env, _, stderr := testEnv()
	code := runMain([]string{"md2docx", "convert"}, env)

	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}
	assertDOCX(t, filepath.Join(out, "a.docx"))
	if !strings.Contains(stderr.String(), "MD2DOCX_BOGUS") {
		t.Errorf("stderr should warn about MD2DOCX_BOGUS, got %q", stderr)
	}
}

func TestConvert_EnvironmentConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "doc.md"), "# Doc\n")
	cfgPath := writeFile(t, filepath.Join(dir, "cfg.yaml"), "merge:\n  separator: stars\n")
	t.Setenv("MD2DOCX_CONFIG", cfgPath)

	env, _, stderr := testEnv()
	code := runMain([]string{"md2docx", "convert", in, "--cache-dir", filepath.Join(dir, "cache")}, env)

	if code != ExitUsage {
		t.Errorf("runMain() = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "invalid separator") {
		t.Errorf("stderr = %q, want invalid separator", stderr)
	}
}
