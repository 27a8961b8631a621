package docx

import "errors"

// Sentinel errors for document rendering.
var (
	// ErrPackage indicates the .docx archive could not be written.
	ErrPackage = errors.New("docx packaging failed")

	// ErrStyles indicates the style set could not be loaded.
	ErrStyles = errors.New("docx style set unavailable")

	// ErrInvalidPage indicates unusable page settings.
	ErrInvalidPage = errors.New("invalid page settings")

	// errImageUnsupported marks an image reference the engine cannot embed.
	// The image is replaced by its alt text.
	errImageUnsupported = errors.New("unsupported image")
)
