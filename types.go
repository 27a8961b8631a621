package md2docx

import (
	"fmt"
	"strings"

	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/natsort"
	"github.com/alnah/go-md2docx/internal/pipeline"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 1.0
)

// PageSettings configures the document's page geometry.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	switch strings.ToLower(p.Size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// docxPage converts validated settings to engine geometry.
func (p *PageSettings) docxPage() (docx.Page, error) {
	if p == nil {
		return docx.DefaultPage(), nil
	}
	if err := p.Validate(); err != nil {
		return docx.Page{}, err
	}
	return docx.PageFor(p.Size, p.Orientation, p.Margin)
}

// SeparatorKind selects what is inserted between merged documents.
type SeparatorKind = pipeline.SeparatorKind

// Separator kinds. The zero value is SeparatorPageBreak.
const (
	SeparatorPageBreak = pipeline.SeparatorPageBreak
	SeparatorRule      = pipeline.SeparatorRule
	SeparatorNone      = pipeline.SeparatorNone
)

// PageBreakMarker is the Markdown line the page-break separator inserts.
// It may also be written by hand to force a page break.
const PageBreakMarker = pipeline.PageBreakMarker

// ParseSeparator parses a separator name ("pagebreak", "rule", "none").
func ParseSeparator(s string) (SeparatorKind, error) {
	return pipeline.ParseSeparator(s)
}

// CompareFunc orders two file names when a directory is merged.
type CompareFunc = natsort.CompareFunc

// Comparators for ConversionOptions.Compare.
var (
	NaturalOrder CompareFunc = natsort.Compare
	LexicalOrder CompareFunc = natsort.Lexical
)

// ConversionOptions controls one conversion call.
type ConversionOptions struct {
	// RenderDiagrams replaces diagram code blocks with rendered images.
	RenderDiagrams bool

	// StrictDiagrams fails the conversion with ErrDiagramsFailed when any
	// diagram cannot be rendered, instead of keeping its code block and
	// reporting a warning.
	StrictDiagrams bool

	// Separator goes between merged documents. Ignored for single sources.
	Separator SeparatorKind

	// Compare orders the files of ConvertDirectory. nil means natural order.
	Compare CompareFunc

	// SourceDir resolves relative image paths for Convert. File-based
	// conversions use each file's own directory.
	SourceDir string

	// HTMLOnly produces an HTML preview instead of a .docx document.
	// File-based conversions then write HTML to the output path.
	HTMLOnly bool
}

func (o ConversionOptions) validate() error {
	return o.Separator.Validate()
}

// Metadata is the document information taken from the front matter of the
// first source that has one.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords []string
}

// Warning reports a diagram that could not be rendered. Its code block was
// kept unchanged in the document.
type Warning struct {
	Source string // input path, empty for Convert
	Index  int    // 0-based position of the diagram in its source
	Line   int    // 1-based line of the opening fence
	Err    error
}

func (w Warning) Error() string {
	return fmt.Sprintf("diagram %d (line %d): %v", w.Index+1, w.Line, w.Err)
}

// Unwrap returns the render error.
func (w Warning) Unwrap() error {
	return w.Err
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	DOCX     []byte // nil when HTMLOnly
	HTML     []byte // set only when HTMLOnly
	Markdown string // the merged text handed to the engine
	Metadata Metadata
	Warnings []Warning
}

// CacheStats reports diagram cache activity since the Converter was created.
type CacheStats struct {
	Hits   int64
	Misses int64
}
