package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// diagramFlags holds mermaid preprocessing flags.
type diagramFlags struct {
	enabled    bool
	disabled   bool
	renderer   string
	cacheDir   string
	language   string
	scale      int
	background string
	strict     bool
}

// joinFlags holds merge (join) flags.
type joinFlags struct {
	enabled   bool
	separator string
	sort      string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// assetFlags holds style flags.
type assetFlags struct {
	style     string // Name or path to a styles.xml
	assetPath string // Override asset directory
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	timeout  string
	html     bool
	diagrams diagramFlags
	merge    joinFlags
	page     pageFlags
	assets   assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and cache statistics")
}

// addDiagramFlags adds diagram flags to a FlagSet.
func addDiagramFlags(fs *flag.FlagSet, f *diagramFlags) {
	fs.BoolVar(&f.enabled, "diagrams", false, "render mermaid diagrams (default unless disabled in config)")
	fs.BoolVar(&f.disabled, "no-diagrams", false, "keep diagram code blocks as code")
	fs.StringVar(&f.renderer, "renderer", "", "diagram renderer executable (default: mmdc)")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "diagram cache directory")
	fs.StringVar(&f.language, "diagram-lang", "", "fence tag of diagram blocks (default: mermaid)")
	fs.IntVar(&f.scale, "diagram-scale", 0, "renderer scale factor (1-10)")
	fs.StringVar(&f.background, "diagram-bg", "", "renderer background colour")
	fs.BoolVar(&f.strict, "strict-diagrams", false, "fail when a diagram cannot be rendered")
}

// addMergeFlags adds merge flags to a FlagSet.
func addMergeFlags(fs *flag.FlagSet, f *joinFlags) {
	fs.BoolVar(&f.enabled, "merge", false, "merge all inputs into one document")
	fs.StringVar(&f.separator, "separator", "", "between merged files: pagebreak, rule, none")
	fs.StringVar(&f.sort, "sort", "", "directory file order: natural, lexical")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addAssetFlags adds style flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "style set name or styles.xml path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom style directory")
}

// newConvertFlagSet registers every convert flag on a fresh FlagSet bound
// to f. Shared by parsing and completion.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.html, "html", false, "write an HTML preview instead of .docx")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addDiagramFlags(fs, &f.diagrams)
	addMergeFlags(fs, &f.merge)
	addPageFlags(fs, &f.page)
	addAssetFlags(fs, &f.assets)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
// Parse errors wrap ErrUsage.
func parseConvertFlags(args []string, usageOut io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printConvertUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if f.diagrams.enabled && f.diagrams.disabled {
		return nil, nil, fmt.Errorf("%w: --diagrams and --no-diagrams are mutually exclusive", ErrUsage)
	}

	return f, fs.Args(), nil
}
