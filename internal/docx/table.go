package docx

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// TableFormatter renders GFM tables as Word tables with a repeating header
// row and per-column alignment.
type TableFormatter struct{}

// Capability implements Formatter.
func (TableFormatter) Capability() Capability { return CapabilityTable }

// CanHandle implements Formatter.
func (TableFormatter) CanHandle(n ast.Node) bool {
	switch n.Kind() {
	case east.KindTable, east.KindTableHeader, east.KindTableRow, east.KindTableCell:
		return true
	}
	return false
}

// Format implements Formatter.
func (TableFormatter) Format(w *Writer, n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *east.Table:
		if entering {
			w.CloseParagraph()
			w.Raw(tableOpenXML(len(node.Alignments), w.ListIndent()))
		} else {
			w.Raw("</w:tbl>")
			w.MarkTable()
		}

	case *east.TableHeader:
		if entering {
			w.Raw("<w:tr><w:trPr><w:tblHeader/></w:trPr>")
		} else {
			w.Raw("</w:tr>")
		}
		w.Bold(entering)

	case *east.TableRow:
		if entering {
			w.Raw("<w:tr>")
		} else {
			w.Raw("</w:tr>")
		}

	case *east.TableCell:
		if entering {
			w.Raw(`<w:tc><w:tcPr><w:tcW w:w="0" w:type="auto"/></w:tcPr>`)
			w.OpenParagraph(ParagraphProps{Align: cellAlign(node.Alignment)})
		} else {
			w.CloseParagraph()
			w.Raw("</w:tc>")
		}
	}
	return ast.WalkContinue, nil
}

func tableOpenXML(cols, indent int) string {
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/>`)
	if indent > 0 {
		fmt.Fprintf(&b, `<w:tblInd w:w="%d" w:type="dxa"/>`, indent)
	}
	b.WriteString(`<w:tblLook w:val="04A0" w:firstRow="1" w:lastRow="0" w:firstColumn="0" w:lastColumn="0" w:noHBand="0" w:noVBand="1"/></w:tblPr><w:tblGrid>`)
	for i := 0; i < max(cols, 1); i++ {
		b.WriteString(`<w:gridCol/>`)
	}
	b.WriteString(`</w:tblGrid>`)
	return b.String()
}

func cellAlign(a east.Alignment) string {
	switch a {
	case east.AlignCenter:
		return "center"
	case east.AlignRight:
		return "right"
	}
	return ""
}

// Compile-time interface check.
var _ Formatter = TableFormatter{}
