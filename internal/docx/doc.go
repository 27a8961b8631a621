// Package docx renders Markdown into a WordprocessingML (.docx) package.
//
// A .docx file is a ZIP archive of XML parts. The engine parses Markdown with
// goldmark, walks the AST once and writes these parts:
//
//	[Content_Types].xml
//	_rels/.rels
//	docProps/core.xml              title, author, subject, keywords
//	docProps/app.xml
//	word/document.xml              body and section (page) properties
//	word/styles.xml                style set from internal/assets
//	word/numbering.xml             one w:num per Markdown list
//	word/_rels/document.xml.rels   styles, numbering, hyperlinks, images
//	word/media/imageN.{png,jpeg,gif}
//
// # Formatters
//
// Node kinds that need more than a paragraph and runs are handled by
// Formatters, each tagged with a Capability (table, list, math, emoji, image,
// code). The walker offers every node to the formatters in order; the first
// one whose CanHandle returns true formats it. Nodes no formatter claims fall
// through to the core walker: headings, paragraphs, emphasis, links, quotes,
// thematic breaks and page-break markers.
//
// The parser only enables the syntax extensions whose formatter is present,
// so removing a formatter degrades its content instead of failing: without
// the table formatter a pipe table stays a paragraph of text, without the
// math formatter dollar signs are literal, without the image formatter
// images become their alt text.
//
// Output is deterministic: the same Request yields the same bytes.
package docx
