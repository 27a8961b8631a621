package main

import (
	"errors"
	"os"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
	"github.com/alnah/go-md2docx/internal/diagram"
)

// Exit codes for the md2docx CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitRenderer = 4 // Diagram renderer or document engine errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Renderer/engine errors (exit 4)
	if errors.Is(err, md2docx.ErrRendererNotFound) ||
		errors.Is(err, md2docx.ErrRenderFailure) ||
		errors.Is(err, md2docx.ErrRenderOutputMissing) ||
		errors.Is(err, md2docx.ErrDiagramsFailed) ||
		errors.Is(err, md2docx.ErrRenderEngine) ||
		errors.Is(err, md2docx.ErrUnexpectedOutputType) ||
		errors.Is(err, md2docx.ErrHTMLConversion) {
		return ExitRenderer
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidSort) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, md2docx.ErrInvalidPageSize) ||
		errors.Is(err, md2docx.ErrInvalidOrientation) ||
		errors.Is(err, md2docx.ErrInvalidMargin) ||
		errors.Is(err, md2docx.ErrInvalidSeparator) ||
		errors.Is(err, md2docx.ErrStyleNotFound) ||
		errors.Is(err, md2docx.ErrInvalidStyle) ||
		errors.Is(err, md2docx.ErrInvalidAssetPath) ||
		errors.Is(err, md2docx.ErrNoInputFiles) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, md2docx.ErrInputNotFound) ||
		errors.Is(err, md2docx.ErrNotAFile) ||
		errors.Is(err, md2docx.ErrReadFailure) ||
		errors.Is(err, md2docx.ErrDirectoryNotFound) ||
		errors.Is(err, md2docx.ErrNotADirectory) ||
		errors.Is(err, md2docx.ErrNoEligibleFiles) ||
		errors.Is(err, md2docx.ErrWriteFailure) ||
		errors.Is(err, diagram.ErrCacheDir) {
		return ExitIO
	}

	return ExitGeneral
}
