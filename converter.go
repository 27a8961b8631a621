package md2docx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2docx/internal/assets"
	"github.com/alnah/go-md2docx/internal/diagram"
	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ diagram.Renderer              = (*diagram.CommandRenderer)(nil)
)

// Converter orchestrates the Markdown-to-DOCX pipeline. Create with
// NewConverter. A Converter is safe for concurrent use; the diagram cache
// directory is the only state shared between calls.
type Converter struct {
	cfg           converterConfig
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	processor     *diagram.Processor
	engine        renderEngine
	styles        []byte
	page          docx.Page
}

// source is one Markdown input.
type source struct {
	name string // path, empty for in-memory text
	dir  string // resolves relative images
	body string
}

// NewConverter creates a Converter with default configuration.
// Returns an error if the style set, asset path or page settings are invalid.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           converterConfig{timeout: defaultTimeout},
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.engine == nil {
		c.engine = docxEngine{engine: docx.NewEngine()}
	}

	styles, err := c.resolveStyle()
	if err != nil {
		return nil, err
	}
	c.styles = styles

	c.page, err = c.cfg.page.docxPage()
	if err != nil {
		return nil, err
	}

	c.processor = c.newProcessor()
	return c, nil
}

func (c *Converter) newProcessor() *diagram.Processor {
	renderer := c.cfg.renderer
	if renderer == nil {
		cmd := diagram.NewCommandRenderer(c.cfg.rendererBin)
		if c.cfg.scale > 0 {
			cmd.Scale = c.cfg.scale
		}
		if c.cfg.background != "" {
			cmd.Background = c.cfg.background
		}
		renderer = cmd
	}

	dir := c.cfg.cacheDir
	if dir == "" {
		dir = diagram.DefaultCacheDir()
	}

	return diagram.NewProcessor(
		diagram.NewScanner(c.cfg.language),
		diagram.NewCache(dir, renderer),
		ResolveWorkers(c.cfg.workers),
	)
}

// resolveStyle loads the configured style set: a styles.xml path, or a name
// looked up in the asset path and then the built-in sets.
func (c *Converter) resolveStyle() ([]byte, error) {
	style := c.cfg.style
	if style == "" {
		style = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(style) {
		content, err := os.ReadFile(style) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("loading style file %q: %w", style, err)
		}
		if err := assets.ValidateStyleContent(style, content); err != nil {
			return nil, err
		}
		return content, nil
	}

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	content, err := resolver.LoadStyle(style)
	if err != nil {
		return nil, fmt.Errorf("loading style %q: %w", style, err)
	}
	return content, nil
}

// ---------------------------------------------------------------------------
// Entry points
// ---------------------------------------------------------------------------

// Convert converts Markdown text. Relative images resolve against
// opts.SourceDir.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, markdown string, opts ConversionOptions) (result *ConvertResult, err error) {
	defer recoverPanic(&err)

	return c.convert(ctx, []source{{dir: opts.SourceDir, body: markdown}}, opts)
}

// ConvertHTML converts Markdown text to a standalone HTML preview.
func (c *Converter) ConvertHTML(ctx context.Context, markdown string, opts ConversionOptions) (*ConvertResult, error) {
	opts.HTMLOnly = true
	return c.Convert(ctx, markdown, opts)
}

// ConvertFile converts one Markdown file and writes the result to
// outputPath. An empty outputPath writes next to the input with a .docx (or
// .html) extension.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string, opts ConversionOptions) (result *ConvertResult, err error) {
	defer recoverPanic(&err)

	if err := checkInputFile(inputPath); err != nil {
		return nil, err
	}
	src, err := readSource(inputPath)
	if err != nil {
		return nil, err
	}

	result, err = c.convert(ctx, []source{src}, opts)
	if err != nil {
		return nil, err
	}
	if outputPath == "" {
		outputPath = fileutil.ReplaceExt(inputPath, outputExt(opts))
	}
	return result, writeResult(outputPath, result)
}

// ConvertDirectory merges the Markdown files directly inside inputDir into
// one document. Files are ordered by opts.Compare (natural order by default)
// and joined with opts.Separator. Subdirectories are not searched. An empty
// outputPath writes <inputDir>.docx.
func (c *Converter) ConvertDirectory(ctx context.Context, inputDir, outputPath string, opts ConversionOptions) (result *ConvertResult, err error) {
	defer recoverPanic(&err)

	paths, err := DiscoverMarkdown(inputDir, opts.Compare)
	if err != nil {
		return nil, err
	}
	if outputPath == "" {
		outputPath = filepath.Clean(inputDir) + outputExt(opts)
	}
	return c.convertFiles(ctx, paths, outputPath, opts)
}

// ConvertFiles merges the given Markdown files, in the given order, into one
// document written to outputPath. Every path is checked before anything is
// read or written.
func (c *Converter) ConvertFiles(ctx context.Context, paths []string, outputPath string, opts ConversionOptions) (result *ConvertResult, err error) {
	defer recoverPanic(&err)

	if len(paths) == 0 {
		return nil, ErrNoInputFiles
	}
	return c.convertFiles(ctx, paths, outputPath, opts)
}

// ClearCache deletes every cached diagram and returns how many files were
// removed.
func (c *Converter) ClearCache() (int, error) {
	return c.processor.Cache().Clear()
}

// CacheDir returns the diagram cache directory.
func (c *Converter) CacheDir() string {
	return c.processor.Cache().Dir()
}

// CacheStats returns diagram cache hits and misses.
func (c *Converter) CacheStats() CacheStats {
	s := c.processor.Cache().Stats()
	return CacheStats{Hits: s.Hits, Misses: s.Misses}
}

// ---------------------------------------------------------------------------
// Pipeline
// ---------------------------------------------------------------------------

func (c *Converter) convertFiles(ctx context.Context, paths []string, outputPath string, opts ConversionOptions) (*ConvertResult, error) {
	if outputPath == "" {
		return nil, fmt.Errorf("%w: empty output path", ErrWriteFailure)
	}
	for _, p := range paths {
		if err := checkInputFile(p); err != nil {
			return nil, err
		}
	}

	sources := make([]source, 0, len(paths))
	for _, p := range paths {
		src, err := readSource(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	result, err := c.convert(ctx, sources, opts)
	if err != nil {
		return nil, err
	}
	return result, writeResult(outputPath, result)
}

// convert runs preprocessing per source, joins the sources and renders the
// merged text.
func (c *Converter) convert(ctx context.Context, sources []source, opts ConversionOptions) (*ConvertResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	result := &ConvertResult{}
	bodies := make([]string, 0, len(sources))
	haveMetadata := false
	for _, src := range sources {
		body, fm, err := c.prepare(ctx, src, opts, result)
		if err != nil {
			return nil, err
		}
		if !haveMetadata && !fm.IsZero() {
			result.Metadata = Metadata(fm)
			haveMetadata = true
		}
		bodies = append(bodies, body)
	}

	if opts.StrictDiagrams && len(result.Warnings) > 0 {
		errs := make([]error, len(result.Warnings))
		for i, w := range result.Warnings {
			errs[i] = w
		}
		return nil, fmt.Errorf("%w: %w", ErrDiagramsFailed, errors.Join(errs...))
	}

	result.Markdown = pipeline.Join(bodies, opts.Separator)

	if opts.HTMLOnly {
		html, err := c.renderHTML(ctx, result.Markdown, result.Metadata.Title)
		if err != nil {
			return nil, err
		}
		result.HTML = []byte(html)
		return result, nil
	}

	out, err := c.engine.Render(ctx, docx.Request{
		Markdown:  []byte(result.Markdown),
		SourceDir: opts.SourceDir,
		Properties: docx.Properties{
			Title:    result.Metadata.Title,
			Author:   result.Metadata.Author,
			Subject:  result.Metadata.Subject,
			Keywords: result.Metadata.Keywords,
		},
		Page:   c.page,
		Styles: c.styles,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrRenderEngine, err)
	}
	result.DOCX, err = normalizeOutput(out)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// prepare turns one source into the body that is joined: diagrams are
// rendered on the raw text so warning lines match the file, then the front
// matter is split off, the text normalized and relative images made
// absolute.
func (c *Converter) prepare(ctx context.Context, src source, opts ConversionOptions, result *ConvertResult) (string, pipeline.FrontMatter, error) {
	body := src.body

	if opts.RenderDiagrams {
		out, warnings, err := c.processor.Process(ctx, body)
		if err != nil {
			return "", pipeline.FrontMatter{}, err
		}
		for _, w := range warnings {
			result.Warnings = append(result.Warnings, Warning{Source: src.name, Index: w.Index, Line: w.Line, Err: w.Err})
		}
		body = out
	}

	fm, body := pipeline.SplitFrontMatter(body)

	body = c.preprocessor.PreprocessMarkdown(ctx, body)
	if err := ctx.Err(); err != nil {
		return "", fm, err
	}

	body, err := pipeline.RewriteRelativePaths(body, src.dir)
	if err != nil {
		return "", fm, fmt.Errorf("rewriting relative paths: %w", err)
	}
	return body, fm, nil
}

// renderHTML builds the HTML preview with highlight and preview CSS.
func (c *Converter) renderHTML(ctx context.Context, markdown, title string) (string, error) {
	html, err := c.htmlConverter.ToHTML(ctx, markdown, title)
	if err != nil {
		return "", err
	}
	css, err := pipeline.HighlightCSS("github")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return c.cssInjector.InjectCSS(ctx, html, pipeline.PreviewCSS+css), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("internal error: %v", r)
	}
}

func checkInputFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrReadFailure, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotAFile, path)
	}
	return nil
}

func readSource(path string) (source, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input
	if err != nil {
		return source{}, fmt.Errorf("%w: %s: %v", ErrReadFailure, path, err)
	}
	return source{name: path, dir: filepath.Dir(path), body: string(data)}, nil
}

func outputExt(opts ConversionOptions) string {
	if opts.HTMLOnly {
		return ".html"
	}
	return ".docx"
}

// writeResult writes the document atomically: nothing exists at path until
// the full payload is on disk.
func writeResult(path string, result *ConvertResult) error {
	data := result.DOCX
	if data == nil {
		data = result.HTML
	}
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailure, path, err)
	}
	return nil
}
