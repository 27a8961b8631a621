package md2docx

import (
	"errors"

	"github.com/alnah/go-md2docx/internal/assets"
	"github.com/alnah/go-md2docx/internal/diagram"
	"github.com/alnah/go-md2docx/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// Diagram rendering. Individual render failures are reported as
	// warnings; these match the Err of a Warning.
	ErrRenderFailure       = diagram.ErrRenderFailure
	ErrRenderOutputMissing = diagram.ErrRenderOutputMissing
	ErrRendererNotFound    = diagram.ErrRendererNotFound

	// ErrDiagramsFailed is returned instead of warnings when
	// ConversionOptions.StrictDiagrams is set.
	ErrDiagramsFailed = errors.New("diagram rendering failed")

	// Document rendering.
	ErrRenderEngine         = errors.New("document rendering failed")
	ErrUnexpectedOutputType = errors.New("unexpected engine output type")
	ErrHTMLConversion       = pipeline.ErrHTMLConversion

	// Inputs.
	ErrInputNotFound     = errors.New("input file not found")
	ErrNotAFile          = errors.New("input is not a regular file")
	ErrReadFailure       = errors.New("failed to read input")
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrNotADirectory     = errors.New("not a directory")
	ErrNoEligibleFiles   = errors.New("no markdown files in directory")
	ErrNoInputFiles      = errors.New("no input files")

	// Output.
	ErrWriteFailure = errors.New("failed to write output")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Option validation errors.
	ErrInvalidSeparator = pipeline.ErrInvalidSeparator

	// Asset loading errors.
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrInvalidStyle     = assets.ErrInvalidStyle
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
