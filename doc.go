// Package md2docx converts Markdown documents to Word (.docx) files.
//
// # Quick Start
//
//	conv, err := md2docx.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, "# Hello\n\nWorld", md2docx.ConversionOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("hello.docx", result.DOCX, 0644)
//
// # Conversion Pipeline
//
// Each source goes through these stages:
//
//  1. Diagram rendering (optional): ```mermaid code blocks are rendered to
//     PNG by an external renderer (mmdc by default) and replaced by inline
//     images. Renders are cached by content hash.
//  2. Front matter: a leading YAML block is removed; title, author, subject
//     and keywords become document properties.
//  3. Normalization: line endings, blank lines, relative image paths.
//
// Sources are then joined with a separator (page break, horizontal rule or
// nothing) and rendered to .docx by the internal engine: goldmark parsing,
// chroma-coloured code, tables, lists, math, emoji and embedded images.
//
// # Diagrams
//
// A diagram that fails to render keeps its code block and is reported in
// ConvertResult.Warnings. Set ConversionOptions.StrictDiagrams to fail
// instead. The renderer subprocess runs in its own process group and is
// killed when the context is cancelled.
//
//	conv, err := md2docx.NewConverter(
//	    md2docx.WithCacheDir("/tmp/diagrams"),
//	    md2docx.WithRendererBin("/usr/local/bin/mmdc"),
//	)
//	result, err := conv.Convert(ctx, text, md2docx.ConversionOptions{RenderDiagrams: true})
//	for _, w := range result.Warnings {
//	    log.Printf("warning: %v", w)
//	}
//
// Cached images are never invalidated; call ClearCache after upgrading the
// renderer.
//
// # Merging
//
// ConvertDirectory merges every .md file of a directory in natural order
// (ch2.md before ch10.md); ConvertFiles merges files in the order given:
//
//	_, err := conv.ConvertDirectory(ctx, "chapters", "book.docx", md2docx.ConversionOptions{
//	    Separator: md2docx.SeparatorPageBreak,
//	})
//
// Output files are written atomically.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := md2docx.NewConverter(
//	    md2docx.WithTimeout(5 * time.Minute),
//	    md2docx.WithStyle("compact"),
//	    md2docx.WithAssetPath("/path/to/assets"), // styles/<name>.xml
//	    md2docx.WithPageSettings(&md2docx.PageSettings{Size: "a4", Orientation: "portrait", Margin: 1}),
//	)
package md2docx
