// Package pipeline prepares Markdown sources for the document engine.
//
// Each source goes through the same stages before the engine sees it:
//   - front matter extraction (title, author)
//   - text normalization (line endings, BOM, blank lines)
//   - relative image paths made absolute, so merged sources keep their images
//
// Join then concatenates the prepared bodies with a separator fragment.
// GoldmarkConverter renders the merged text to a standalone HTML document for
// previewing what the engine will lay out.
package pipeline
