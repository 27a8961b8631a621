package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2docx/internal/diagram"
	"github.com/alnah/go-md2docx/internal/fileutil"
)

// versionCheckTimeout bounds "<renderer> --version".
const versionCheckTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Renderer rendererInfo `json:"renderer"`
	Cache    cacheInfo    `json:"cache"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// rendererInfo holds diagram renderer detection results.
type rendererInfo struct {
	Bin     string `json:"bin"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// cacheInfo holds diagram cache checks.
type cacheInfo struct {
	Dir      string `json:"dir"`
	Writable bool   `json:"writable"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string            `json:"os"`
	Arch          string            `json:"arch"`
	Container     bool              `json:"container"`
	ContainerHint string            `json:"container_hint,omitempty"`
	CI            bool              `json:"ci"`
	Variables     map[string]string `json:"variables,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printDoctorUsage(env.Stdout) }
	var jsonOutput bool
	var rendererBin, cacheDir string
	fs.BoolVar(&jsonOutput, "json", false, "machine-readable output")
	fs.StringVar(&rendererBin, "renderer", "", "diagram renderer executable")
	fs.StringVar(&cacheDir, "cache-dir", "", "diagram cache directory")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	if cacheDir == "" {
		cacheDir = os.Getenv(envCacheDir)
	}
	if cacheDir == "" {
		cacheDir = diagram.DefaultCacheDir()
	}

	result := runDoctor(diagram.ResolveRendererBin(rendererBin), cacheDir)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(rendererBin, cacheDir string) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkRenderer(result, rendererBin)
	checkCache(result, cacheDir)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkRenderer locates the diagram renderer. A missing renderer is a
// warning: documents still convert with diagrams kept as code.
func checkRenderer(result *doctorResult, bin string) {
	result.Renderer.Bin = bin

	path, found := diagram.NewCommandRenderer(bin).Available()
	if !found {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Diagram renderer %q not found. Install @mermaid-js/mermaid-cli or set %s", bin, envRenderer))
		return
	}
	result.Renderer.Found = true
	result.Renderer.Path = path

	ctx, cancel := context.WithTimeout(context.Background(), versionCheckTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "--version").Output() // #nosec G204 -- renderer path is user-configured
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get renderer version: %v", err))
		return
	}
	result.Renderer.Version = strings.TrimSpace(string(out))
}

// checkCache verifies the diagram cache directory can be created and written.
func checkCache(result *doctorResult, dir string) {
	result.Cache.Dir = dir

	if err := os.MkdirAll(dir, fileutil.DirPermissions); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Cache directory not writable: %s (%v)", dir, err))
		return
	}
	scratch, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Cache directory not writable: %s (%v)", dir, err))
		return
	}
	_ = scratch.Close()
	_ = os.Remove(scratch.Name())
	result.Cache.Writable = true
}

// checkEnvironment detects container and CI environments and records the
// MD2DOCX_* variables in effect.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	for _, name := range knownEnvVars {
		if v := os.Getenv(name); v != "" {
			if result.Env.Variables == nil {
				result.Env.Variables = make(map[string]string)
			}
			result.Env.Variables[name] = v
		}
	}

	// mmdc launches headless Chromium, which refuses to run as root in a
	// sandbox.
	if (result.Env.Container || result.Env.CI) && result.Renderer.Found {
		result.Warnings = append(result.Warnings,
			"Container/CI detected. mmdc may need a puppeteer config with --no-sandbox")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("MD2DOCX_CONTAINER") == "1" {
		return true, "MD2DOCX_CONTAINER=1"
	}
	// Docker
	if fileutil.FileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for renderer input is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "md2docx-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2docx doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Diagram renderer")
	if r.Renderer.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Renderer.Path)
		if r.Renderer.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Renderer.Version)
		}
	} else {
		fmt.Fprintf(w, "  [WARN] %s not found (diagrams stay as code)\n", r.Renderer.Bin)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Diagram cache")
	if r.Cache.Writable {
		fmt.Fprintf(w, "  [OK] %s: writable\n", r.Cache.Dir)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s: not writable\n", r.Cache.Dir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	for _, name := range knownEnvVars {
		if v, ok := r.Env.Variables[name]; ok {
			fmt.Fprintf(w, "  [OK] %s=%s\n", name, v)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
