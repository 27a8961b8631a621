package docx

import (
	"strings"

	"github.com/yuin/goldmark/ast"
)

// CodeFormatter writes code blocks as SourceCode paragraphs, one per line,
// coloured by chroma when the fence names a known language.
type CodeFormatter struct{}

// Capability implements Formatter.
func (CodeFormatter) Capability() Capability { return CapabilityCode }

// CanHandle implements Formatter.
func (CodeFormatter) CanHandle(n ast.Node) bool {
	k := n.Kind()
	return k == ast.KindFencedCodeBlock || k == ast.KindCodeBlock
}

// Format implements Formatter.
func (CodeFormatter) Format(w *Writer, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}

	var lang string
	if fenced, ok := n.(*ast.FencedCodeBlock); ok {
		lang = string(fenced.Language(w.source))
	}
	source := string(blockText(n, w.source))

	for _, line := range Highlight(source, strings.ToLower(lang)) {
		w.OpenParagraph(ParagraphProps{Style: "SourceCode", Indent: w.ListIndent()})
		for _, span := range line {
			w.WriteRun(span.Text, RunProps{Color: span.Color, Bold: span.Bold, Italic: span.Italic})
		}
		w.CloseParagraph()
	}
	return ast.WalkSkipChildren, nil
}

// Compile-time interface check.
var _ Formatter = CodeFormatter{}
