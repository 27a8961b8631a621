// Package diagram turns fenced diagram blocks in Markdown into embedded images.
//
// The work is split into four pieces that run in order for each document:
//
//	Scanner    - finds ```mermaid fences and their byte spans
//	Cache      - maps diagram source to a rendered PNG, keyed by content hash
//	Renderer   - runs the external renderer (mmdc) on cache misses
//	Rewrite    - replaces each span with a base64 image reference
//
// Processor wires them together. A block whose render fails keeps its
// original fenced text and is reported as a Warning; it never aborts the
// document.
//
// # Cache Layout
//
// The cache is a single flat directory:
//
//	{dir}/
//	├── {sha256}.mmd   # diagram source handed to the renderer
//	└── {sha256}.png   # rendered image
//
// Entries never expire. Use Cache.Clear to purge them.
package diagram
