package docx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/alnah/go-md2docx/internal/assets"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ctxCheckInterval is how many AST nodes are visited between context checks.
const ctxCheckInterval = 256

// Request is one document to render.
type Request struct {
	// Markdown is the joined, preprocessed document text.
	Markdown []byte

	// SourceDir resolves relative image paths. Empty means the working
	// directory.
	SourceDir string

	// Properties are written to docProps/core.xml.
	Properties Properties

	// Formatters handle tables, lists, math, emoji, images and code.
	// nil means DefaultFormatters; an empty slice disables them all.
	Formatters []Formatter

	// Page is the section geometry. The zero value means DefaultPage.
	Page Page

	// Styles is a complete word/styles.xml. nil means the embedded default
	// style set.
	Styles []byte
}

// Engine renders Markdown to .docx. It holds no state between calls and is
// safe for concurrent use.
type Engine struct{}

// NewEngine creates an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Render converts req.Markdown into a .docx package.
func (e *Engine) Render(ctx context.Context, req Request) (*bytes.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	formatters := req.Formatters
	if formatters == nil {
		formatters = DefaultFormatters()
	}
	page := req.Page
	if page == (Page{}) {
		page = DefaultPage()
	}
	styles := req.Styles
	if styles == nil {
		var err error
		styles, err = assets.LoadStyle(assets.DefaultStyleName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStyles, err)
		}
	}

	md := newMarkdown(formatters)
	doc := md.Parser().Parse(text.NewReader(req.Markdown))

	w := newWriter(req.Markdown, req.SourceDir, page)
	visited := 0
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		visited++
		if visited%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return ast.WalkStop, err
			}
		}
		for _, f := range formatters {
			if f.CanHandle(n) {
				return f.Format(w, n, entering)
			}
		}
		return w.formatCore(n, entering)
	})
	if err != nil {
		return nil, err
	}

	return writePackage(w, styles, req.Properties)
}

// newMarkdown builds a parser whose syntax extensions match the formatters:
// a construct is only recognized when something can render it, so without
// the table formatter a pipe table stays a paragraph of text.
func newMarkdown(formatters []Formatter) goldmark.Markdown {
	has := make(map[Capability]bool, len(formatters))
	for _, f := range formatters {
		has[f.Capability()] = true
	}

	exts := []goldmark.Extender{
		extension.Strikethrough,
		extension.Linkify,
	}
	if has[CapabilityTable] {
		exts = append(exts, extension.Table)
	}
	if has[CapabilityList] {
		exts = append(exts, extension.TaskList)
	}
	if has[CapabilityEmoji] {
		exts = append(exts, emoji.Emoji)
	}
	if has[CapabilityMath] {
		exts = append(exts, mathExtension{})
	}
	return goldmark.New(goldmark.WithExtensions(exts...))
}
