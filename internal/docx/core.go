package docx

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// PageBreakMarker is the HTML comment that becomes a hard page break.
const PageBreakMarker = "<!-- pagebreak -->"

// formatCore renders the node kinds every document needs.
func (w *Writer) formatCore(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			w.OpenParagraph(ParagraphProps{Style: fmt.Sprintf("Heading%d", min(max(node.Level, 1), 6))})
		} else {
			w.CloseParagraph()
		}

	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			w.OpenParagraph(w.ContextParagraph())
		} else {
			w.CloseParagraph()
		}

	case *ast.Blockquote:
		w.CloseParagraph()
		w.Quote(entering)

	case *ast.Text:
		if !entering {
			break
		}
		w.WriteText(string(node.Segment.Value(w.source)))
		switch {
		case node.HardLineBreak():
			w.LineBreak()
		case node.SoftLineBreak():
			w.WriteText(" ")
		}

	case *ast.String:
		if entering {
			w.WriteText(string(node.Value))
		}

	case *ast.Emphasis:
		if node.Level >= 2 {
			w.Bold(entering)
		} else {
			w.Italic(entering)
		}

	case *east.Strikethrough:
		w.Strike(entering)

	case *ast.CodeSpan:
		w.Code(entering)

	case *ast.Link:
		if entering {
			w.OpenHyperlink(string(node.Destination))
		} else {
			w.CloseHyperlink()
		}

	case *ast.AutoLink:
		if entering {
			url := string(node.URL(w.source))
			if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
				url = "mailto:" + url
			}
			w.OpenHyperlink(url)
			w.WriteText(string(node.Label(w.source)))
			w.CloseHyperlink()
		}
		return ast.WalkSkipChildren, nil

	case *ast.ThematicBreak:
		if entering {
			w.HorizontalRule()
		}

	case *ast.HTMLBlock:
		if entering && bytes.Contains(blockText(node, w.source), []byte(PageBreakMarker)) {
			w.PageBreak()
		}
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		if entering && isLineBreakTag(rawHTMLText(node, w.source)) {
			w.LineBreak()
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock, *ast.FencedCodeBlock:
		if entering {
			w.plainCode(node)
		}
		return ast.WalkSkipChildren, nil

	case *ast.Image:
		if entering {
			w.WriteRun(altText(node, w.source), RunProps{Italic: true})
		}
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

// plainCode writes a code block one uncoloured line per paragraph.
func (w *Writer) plainCode(n ast.Node) {
	for _, line := range codeLines(n, w.source) {
		w.OpenParagraph(ParagraphProps{Style: "SourceCode", Indent: w.ListIndent()})
		w.WriteRun(line, RunProps{})
		w.CloseParagraph()
	}
}

// blockText concatenates the raw lines of a block node.
func blockText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	if hb, ok := n.(*ast.HTMLBlock); ok && hb.HasClosure() {
		buf.Write(hb.ClosureLine.Value(source))
	}
	return buf.Bytes()
}

// codeLines returns the lines of a code block without trailing newlines.
func codeLines(n ast.Node, source []byte) []string {
	text := strings.TrimSuffix(string(blockText(n, source)), "\n")
	return strings.Split(text, "\n")
}

func rawHTMLText(n *ast.RawHTML, source []byte) string {
	var b strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

func isLineBreakTag(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "<br>" || s == "<br/>" || s == "<br />"
}

// altText returns the plain text of a node's descendants.
func altText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
