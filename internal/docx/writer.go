package docx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Relationship types used in word/_rels/document.xml.rels.
const (
	relStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNumbering = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relHyperlink = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	relImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// listIndent is the left indent of one list level, in twips.
const listIndent = 720

// maxListLevel is the deepest level a numbering definition has (0-based).
const maxListLevel = 8

// ParagraphProps describes a paragraph's w:pPr.
type ParagraphProps struct {
	Style  string // style ID, empty for Normal
	Align  string // w:jc value: left, center, right, both
	NumID  int    // numbering instance, 0 for none
	Level  int    // list level for NumID
	Indent int    // left indent in twips, 0 for none
}

// RunProps describes a run's w:rPr.
type RunProps struct {
	Style  string // character style ID
	Bold   bool
	Italic bool
	Strike bool
	Color  string // RRGGBB
	Font   string
}

type relationship struct {
	id       string
	typ      string
	target   string
	external bool
}

type mediaFile struct {
	name string // file name under word/media
	data []byte
}

type listContext struct {
	numID int
	level int
}

// Writer accumulates the body of word/document.xml and the parts it refers
// to while the AST is walked. Formatters write through it.
type Writer struct {
	source    []byte
	sourceDir string
	page      Page

	body      strings.Builder
	rels      []relationship
	linkRels  map[string]string
	media     []mediaFile
	numbering numbering
	drawingID int

	inPara    bool
	lastTable bool

	bold, italic, strike, code, link int
	quoteDepth                       int
	lists                            []listContext
	itemStart                        bool
	linkStack                        []bool
}

func newWriter(source []byte, sourceDir string, page Page) *Writer {
	w := &Writer{
		source:    source,
		sourceDir: sourceDir,
		page:      page,
		linkRels:  make(map[string]string),
	}
	w.addRelationship(relStyles, "styles.xml", false)
	w.addRelationship(relNumbering, "numbering.xml", false)
	return w
}

// Source returns the Markdown being rendered.
func (w *Writer) Source() []byte {
	return w.source
}

// SourceDir returns the directory relative image paths are resolved against.
func (w *Writer) SourceDir() string {
	return w.sourceDir
}

// Page returns the section geometry.
func (w *Writer) Page() Page {
	return w.page
}

// ---------------------------------------------------------------------------
// Paragraphs
// ---------------------------------------------------------------------------

// OpenParagraph closes any open paragraph and starts a new one.
func (w *Writer) OpenParagraph(p ParagraphProps) {
	w.CloseParagraph()
	w.lastTable = false
	w.inPara = true

	w.body.WriteString("<w:p>")
	var ppr strings.Builder
	if p.Style != "" {
		fmt.Fprintf(&ppr, `<w:pStyle w:val="%s"/>`, escapeAttr(p.Style))
	}
	if p.NumID > 0 {
		fmt.Fprintf(&ppr, `<w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr>`, p.Level, p.NumID)
	}
	if p.Indent > 0 {
		fmt.Fprintf(&ppr, `<w:ind w:left="%d"/>`, p.Indent)
	}
	if p.Align != "" {
		fmt.Fprintf(&ppr, `<w:jc w:val="%s"/>`, escapeAttr(p.Align))
	}
	if ppr.Len() > 0 {
		w.body.WriteString("<w:pPr>")
		w.body.WriteString(ppr.String())
		w.body.WriteString("</w:pPr>")
	}
}

// CloseParagraph ends the open paragraph, if any.
func (w *Writer) CloseParagraph() {
	if !w.inPara {
		return
	}
	w.body.WriteString("</w:p>")
	w.inPara = false
}

// InParagraph reports whether a paragraph is open.
func (w *Writer) InParagraph() bool {
	return w.inPara
}

// ContextParagraph returns the properties a body paragraph gets at the
// current position: list numbering or indentation inside list items, the
// Quote style inside block quotes. The first paragraph of a list item
// carries the item's number or bullet.
func (w *Writer) ContextParagraph() ParagraphProps {
	if n := len(w.lists); n > 0 {
		lc := w.lists[n-1]
		if w.itemStart {
			w.itemStart = false
			return ParagraphProps{Style: "ListParagraph", NumID: lc.numID, Level: lc.level}
		}
		return ParagraphProps{Style: "ListParagraph", Indent: w.ListIndent()}
	}
	if w.quoteDepth > 0 {
		return ParagraphProps{Style: "Quote"}
	}
	return ParagraphProps{}
}

// ListIndent returns the left indent matching the current list depth, or 0
// outside lists.
func (w *Writer) ListIndent() int {
	return listIndent * len(w.lists)
}

func (w *Writer) ensureParagraph() {
	if !w.inPara {
		w.OpenParagraph(w.ContextParagraph())
	}
}

// PageBreak writes a paragraph holding a hard page break.
func (w *Writer) PageBreak() {
	w.CloseParagraph()
	w.lastTable = false
	w.body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

// HorizontalRule writes an empty paragraph with a bottom border.
func (w *Writer) HorizontalRule() {
	w.CloseParagraph()
	w.lastTable = false
	w.body.WriteString(`<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="auto"/></w:pBdr></w:pPr></w:p>`)
}

// ---------------------------------------------------------------------------
// Runs
// ---------------------------------------------------------------------------

// InlineProps returns run properties for the current emphasis, code span and
// link nesting.
func (w *Writer) InlineProps() RunProps {
	rp := RunProps{
		Bold:   w.bold > 0,
		Italic: w.italic > 0,
		Strike: w.strike > 0,
	}
	switch {
	case w.code > 0:
		rp.Style = "CodeChar"
	case w.link > 0:
		rp.Style = "Hyperlink"
	}
	return rp
}

// WriteText writes s with the current inline formatting.
func (w *Writer) WriteText(s string) {
	if s == "" {
		return
	}
	w.WriteRun(s, w.InlineProps())
}

// WriteRun writes s as one run, opening a paragraph if needed.
func (w *Writer) WriteRun(s string, rp RunProps) {
	w.ensureParagraph()
	w.body.WriteString("<w:r>")
	w.writeRunProps(rp)
	w.body.WriteString(`<w:t xml:space="preserve">`)
	w.body.WriteString(escapeText(s))
	w.body.WriteString("</w:t></w:r>")
}

// LineBreak writes a line break inside the current paragraph.
func (w *Writer) LineBreak() {
	w.ensureParagraph()
	w.body.WriteString("<w:r><w:br/></w:r>")
}

func (w *Writer) writeRunProps(rp RunProps) {
	if rp == (RunProps{}) {
		return
	}
	w.body.WriteString("<w:rPr>")
	if rp.Style != "" {
		fmt.Fprintf(&w.body, `<w:rStyle w:val="%s"/>`, escapeAttr(rp.Style))
	}
	if rp.Font != "" {
		f := escapeAttr(rp.Font)
		fmt.Fprintf(&w.body, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:eastAsia="%s" w:cs="%s"/>`, f, f, f, f)
	}
	if rp.Bold {
		w.body.WriteString("<w:b/>")
	}
	if rp.Italic {
		w.body.WriteString("<w:i/>")
	}
	if rp.Strike {
		w.body.WriteString("<w:strike/>")
	}
	if rp.Color != "" {
		fmt.Fprintf(&w.body, `<w:color w:val="%s"/>`, escapeAttr(rp.Color))
	}
	w.body.WriteString("</w:rPr>")
}

// Bold, Italic, Strike and Code adjust inline nesting on entering and
// leaving a node.
func (w *Writer) Bold(entering bool)   { w.bold += delta(entering) }
func (w *Writer) Italic(entering bool) { w.italic += delta(entering) }
func (w *Writer) Strike(entering bool) { w.strike += delta(entering) }
func (w *Writer) Code(entering bool)   { w.code += delta(entering) }

func delta(entering bool) int {
	if entering {
		return 1
	}
	return -1
}

// ---------------------------------------------------------------------------
// Block structure
// ---------------------------------------------------------------------------

// Quote adjusts block quote nesting.
func (w *Writer) Quote(entering bool) {
	w.quoteDepth += delta(entering)
}

// PushList starts a list and allocates its numbering instance.
func (w *Writer) PushList(ordered bool, start int) {
	level := min(len(w.lists), maxListLevel)
	numID := w.numbering.add(ordered, start, level)
	w.lists = append(w.lists, listContext{numID: numID, level: level})
}

// PopList ends the innermost list.
func (w *Writer) PopList() {
	if n := len(w.lists); n > 0 {
		w.lists = w.lists[:n-1]
	}
	w.itemStart = false
}

// StartListItem marks the next context paragraph as the item's first.
func (w *Writer) StartListItem() {
	w.CloseParagraph()
	w.itemStart = true
}

// EndListItem ends a list item.
func (w *Writer) EndListItem() {
	w.CloseParagraph()
	w.itemStart = false
}

// Raw writes pre-built XML into the body. Callers are responsible for
// well-formedness.
func (w *Writer) Raw(xmlText string) {
	w.body.WriteString(xmlText)
}

// MarkTable records that the body currently ends with a table.
func (w *Writer) MarkTable() {
	w.lastTable = true
}

// ---------------------------------------------------------------------------
// Hyperlinks
// ---------------------------------------------------------------------------

// OpenHyperlink starts an external hyperlink to target. Targets starting
// with '#' have no external part and render as plain text.
func (w *Writer) OpenHyperlink(target string) {
	w.ensureParagraph()
	if target == "" || strings.HasPrefix(target, "#") {
		w.linkStack = append(w.linkStack, false)
		return
	}
	id, ok := w.linkRels[target]
	if !ok {
		id = w.addRelationship(relHyperlink, target, true)
		w.linkRels[target] = id
	}
	fmt.Fprintf(&w.body, `<w:hyperlink r:id="%s" w:history="1">`, id)
	w.linkStack = append(w.linkStack, true)
	w.link++
}

// CloseHyperlink ends the innermost hyperlink.
func (w *Writer) CloseHyperlink() {
	n := len(w.linkStack)
	if n == 0 {
		return
	}
	external := w.linkStack[n-1]
	w.linkStack = w.linkStack[:n-1]
	if external {
		w.body.WriteString("</w:hyperlink>")
		w.link--
	}
}

// ---------------------------------------------------------------------------
// Media
// ---------------------------------------------------------------------------

// AddImage stores image data under word/media and returns its relationship ID.
// ext is the file extension without dot (png, jpeg, gif).
func (w *Writer) AddImage(data []byte, ext string) string {
	name := "image" + strconv.Itoa(len(w.media)+1) + "." + ext
	w.media = append(w.media, mediaFile{name: name, data: data})
	return w.addRelationship(relImage, "media/"+name, false)
}

// NextDrawingID returns a document-unique ID for a drawing object.
func (w *Writer) NextDrawingID() int {
	w.drawingID++
	return w.drawingID
}

func (w *Writer) addRelationship(typ, target string, external bool) string {
	id := "rId" + strconv.Itoa(len(w.rels)+1)
	w.rels = append(w.rels, relationship{id: id, typ: typ, target: target, external: external})
	return id
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

const documentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
	` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
	` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
	` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">` +
	`<w:body>`

// documentXML closes the body and returns word/document.xml.
func (w *Writer) documentXML() []byte {
	w.CloseParagraph()
	// A body may not end with a table.
	if w.lastTable {
		w.body.WriteString("<w:p/>")
	}

	var b strings.Builder
	b.Grow(len(documentOpen) + w.body.Len() + 256)
	b.WriteString(documentOpen)
	b.WriteString(w.body.String())
	b.WriteString(w.page.sectionXML())
	b.WriteString("</w:body></w:document>")
	return []byte(b.String())
}

// relationshipsXML returns word/_rels/document.xml.rels.
func (w *Writer) relationshipsXML() []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range w.rels {
		mode := ""
		if r.external {
			mode = ` TargetMode="External"`
		}
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`, r.id, r.typ, escapeAttr(r.target), mode)
	}
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

// ---------------------------------------------------------------------------
// Escaping
// ---------------------------------------------------------------------------

// escapeText escapes character data. Characters XML forbids are replaced
// with U+FFFD by encoding/xml.
func escapeText(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// escapeAttr escapes an attribute value.
func escapeAttr(s string) string {
	return escapeText(s)
}
