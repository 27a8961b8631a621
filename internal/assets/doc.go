// Package assets provides the Word style sets used by the document engine.
//
// A style set is a complete word/styles.xml part: document defaults plus the
// paragraph, character and table styles the engine references (Normal,
// Title, Heading1-6, Quote, SourceCode, ListParagraph, Caption, Hyperlink,
// CodeChar, MathChar, TableGrid).
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in sets compiled into the binary
//	    ├── FilesystemLoader  - sets read from a directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// # Directory Structure
//
//	{basePath}/
//	└── styles/
//	    └── {name}.xml
//
// A custom directory only needs the sets it overrides. A convenient way to
// make one is to unzip a .docx saved from Word and copy word/styles.xml.
//
// # Security
//
// Style names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
