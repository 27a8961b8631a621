package docx

import (
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Task list markers.
const (
	checkboxChecked   = "☒ "
	checkboxUnchecked = "☐ "
)

// ListFormatter renders bullet, ordered and task lists with Word numbering.
// Nested lists use the next numbering level; ordered lists keep their start
// number.
type ListFormatter struct{}

// Capability implements Formatter.
func (ListFormatter) Capability() Capability { return CapabilityList }

// CanHandle implements Formatter.
func (ListFormatter) CanHandle(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindList, ast.KindListItem, east.KindTaskCheckBox:
		return true
	}
	return false
}

// Format implements Formatter.
func (ListFormatter) Format(w *Writer, n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.List:
		if entering {
			w.CloseParagraph()
			w.PushList(node.IsOrdered(), node.Start)
		} else {
			w.PopList()
		}

	case *ast.ListItem:
		if entering {
			w.StartListItem()
		} else {
			w.EndListItem()
		}

	case *east.TaskCheckBox:
		if entering {
			marker := checkboxUnchecked
			if node.IsChecked {
				marker = checkboxChecked
			}
			w.WriteRun(marker, RunProps{Font: "Segoe UI Symbol"})
		}
	}
	return ast.WalkContinue, nil
}

// Compile-time interface check.
var _ Formatter = ListFormatter{}
