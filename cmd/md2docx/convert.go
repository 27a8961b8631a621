package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/assets"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/diagram"
	"github.com/alnah/go-md2docx/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidSort        = errors.New("invalid sort order")
	ErrConversionFailed   = errors.New("conversion failed")
)

// runConvertCmd parses convert flags and runs the conversion.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	setMaxProcs(flags.common.verbose, env.Stderr)

	if err := runConvert(ctx, positional, flags, env); err != nil {
		name := flags.common.config
		if name == "" {
			name = loadEnvConfig().ConfigPath
		}
		return withHint(err, hintFor(err, name))
	}
	return nil
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	workers = md2docx.ResolveWorkers(workers)

	inputs, err := resolveInputs(positionalArgs, cfg)
	if err != nil {
		return err
	}

	opts, err := buildConversionOptions(flags, cfg)
	if err != nil {
		return err
	}

	conv, err := md2docx.NewConverter(append(buildConverterOptions(cfg, workers, timeout), env.Options...)...)
	if err != nil {
		return err
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Workers: %d\n", workers)
		fmt.Fprintf(env.Stderr, "Diagram cache: %s\n", conv.CacheDir())
	}

	ext := ".docx"
	if opts.HTMLOnly {
		ext = ".html"
	}
	output := flags.output
	if output == "" {
		output = cfg.Output.DefaultDir
	}

	var results []ConversionResult
	if cfg.Merge.Enabled {
		out := mergedOutputPath(inputs, output, ext)
		results = []ConversionResult{convertMerged(ctx, conv, inputs, out, opts)}
	} else {
		files, err := discoverFiles(inputs, output, ext, opts.Compare)
		if err != nil {
			return err
		}
		results = convertBatch(ctx, conv, files, opts, workers)
	}

	summary := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if flags.common.verbose {
		stats := conv.CacheStats()
		fmt.Fprintf(env.Stderr, "Diagram cache: %d hit(s), %d miss(es)\n", stats.Hits, stats.Misses)
	}
	if summary.Warnings > 0 && !flags.common.quiet && anyWarningIs(results, md2docx.ErrRendererNotFound) {
		fmt.Fprintln(env.Stderr, strings.TrimPrefix(hints.ForRendererNotFound(envRenderer), "\n"))
	}

	return resultsError(results, summary)
}

// resultsError returns nil when every conversion succeeded. A single
// failure is returned as is so its exit code applies.
func resultsError(results []ConversionResult, summary ResultSummary) error {
	if summary.Failed == 0 {
		return nil
	}
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		if summary.Failed == 1 && len(results) == 1 {
			return r.Err
		}
		return fmt.Errorf("%w: %d of %d document(s): %w", ErrConversionFailed, summary.Failed, len(results), r.Err)
	}
	return nil
}

func anyWarningIs(results []ConversionResult, target error) bool {
	for _, r := range results {
		for _, w := range r.Warnings {
			if errors.Is(w, target) {
				return true
			}
		}
	}
	return false
}

// loadConfig loads the config named by the flag, then by MD2DOCX_CONFIG.
// Without either, defaults apply.
func loadConfig(name string, env *envConfig) (*config.Config, error) {
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Diagram flags
	if flags.diagrams.enabled {
		on := true
		cfg.Diagrams.Enabled = &on
	}
	if flags.diagrams.disabled {
		off := false
		cfg.Diagrams.Enabled = &off
	}
	if flags.diagrams.renderer != "" {
		cfg.Diagrams.Renderer = flags.diagrams.renderer
	}
	if flags.diagrams.cacheDir != "" {
		cfg.Diagrams.CacheDir = flags.diagrams.cacheDir
	}
	if flags.diagrams.language != "" {
		cfg.Diagrams.Language = flags.diagrams.language
	}
	if flags.diagrams.scale != 0 {
		cfg.Diagrams.Scale = flags.diagrams.scale
	}
	if flags.diagrams.background != "" {
		cfg.Diagrams.Background = flags.diagrams.background
	}

	// Merge flags
	if flags.merge.enabled {
		cfg.Merge.Enabled = true
	}
	if flags.merge.separator != "" {
		cfg.Merge.Separator = flags.merge.separator
	}
	if flags.merge.sort != "" {
		cfg.Merge.Sort = flags.merge.sort
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.Page.Margin = flags.page.margin
	}

	// Style
	if flags.assets.style != "" {
		cfg.Style = flags.assets.style
	}
}

// resolveTimeout parses the --timeout flag, falling back to MD2DOCX_TIMEOUT.
// Zero means the library default.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// resolveInputs determines the input paths from args or config.
func resolveInputs(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cfg.Input.DefaultDir != "" {
		return []string{cfg.Input.DefaultDir}, nil
	}
	return nil, ErrNoInput
}

// buildConversionOptions maps config onto per-call library options.
func buildConversionOptions(flags *convertFlags, cfg *config.Config) (md2docx.ConversionOptions, error) {
	sep, err := md2docx.ParseSeparator(cfg.Merge.Separator)
	if err != nil {
		return md2docx.ConversionOptions{}, err
	}

	var cmp md2docx.CompareFunc
	switch strings.ToLower(cfg.Merge.Sort) {
	case "", config.SortNatural:
		cmp = md2docx.NaturalOrder
	case config.SortLexical:
		cmp = md2docx.LexicalOrder
	default:
		return md2docx.ConversionOptions{}, fmt.Errorf("%w: %q (must be natural or lexical)", ErrInvalidSort, cfg.Merge.Sort)
	}

	return md2docx.ConversionOptions{
		RenderDiagrams: cfg.Diagrams.IsEnabled(),
		StrictDiagrams: flags.diagrams.strict,
		Separator:      sep,
		Compare:        cmp,
		HTMLOnly:       flags.html,
	}, nil
}

// buildConverterOptions maps config onto converter construction options.
func buildConverterOptions(cfg *config.Config, workers int, timeout time.Duration) []md2docx.Option {
	opts := []md2docx.Option{
		md2docx.WithWorkers(workers),
		md2docx.WithCacheDir(cfg.Diagrams.CacheDir),
		md2docx.WithRendererBin(cfg.Diagrams.Renderer),
		md2docx.WithDiagramLanguage(cfg.Diagrams.Language),
		md2docx.WithDiagramScale(cfg.Diagrams.Scale),
		md2docx.WithDiagramBackground(cfg.Diagrams.Background),
		md2docx.WithStyle(cfg.Style),
	}
	if timeout > 0 {
		opts = append(opts, md2docx.WithTimeout(timeout))
	}
	if page := buildPageSettings(cfg); page != nil {
		opts = append(opts, md2docx.WithPageSettings(page))
	}
	return opts
}

// buildPageSettings returns nil when no page field is configured.
func buildPageSettings(cfg *config.Config) *md2docx.PageSettings {
	if cfg.Page == (config.PageConfig{}) {
		return nil
	}
	page := md2docx.DefaultPageSettings()
	if cfg.Page.Size != "" {
		page.Size = strings.ToLower(cfg.Page.Size)
	}
	if cfg.Page.Orientation != "" {
		page.Orientation = strings.ToLower(cfg.Page.Orientation)
	}
	if cfg.Page.Margin != 0 {
		page.Margin = cfg.Page.Margin
	}
	return page
}

// validateWorkers rejects negative worker counts and values above the cap.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, n)
	}
	if n > md2docx.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, md2docx.MaxWorkers)
	}
	return nil
}

// setMaxProcs configures GOMAXPROCS, logging the decision only when verbose.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool, w io.Writer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, configName string) string {
	switch {
	case errors.Is(err, md2docx.ErrRendererNotFound):
		return hints.ForRendererNotFound(envRenderer)
	case errors.Is(err, md2docx.ErrDiagramsFailed):
		return hints.ForRenderFailure()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(configName))
	case errors.Is(err, md2docx.ErrStyleNotFound):
		return hints.ForStyleNotFound(styleNames())
	case errors.Is(err, diagram.ErrCacheDir):
		return hints.ForCacheDirectory(envCacheDir)
	case errors.Is(err, md2docx.ErrWriteFailure):
		return hints.ForOutputDirectory()
	}
	return ""
}

// hintedError appends an actionable hint to an error message.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }
func (e *hintedError) Unwrap() error { return e.err }

// withHint attaches hint to err. An empty hint returns err unchanged.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}

// styleNames lists the built-in style sets.
func styleNames() []string {
	return assets.StyleNames()
}
