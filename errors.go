package xtctool

import "errors"

// Sentinel errors for library operations.
var (
	ErrNoSources    = errors.New("no input sources given")
	ErrUnknownInput = errors.New("unrecognized input file type")
	ErrNoPages      = errors.New("selection matched no pages")

	// Output selection errors.
	ErrUnknownOutput = errors.New("unrecognized output file type")
	ErrFormatClash   = errors.New("frame format does not match output extension")

	// Configuration validation errors.
	ErrInvalidDimensions = errors.New("invalid output dimensions")
	ErrInvalidResolution = errors.New("invalid render resolution")
	ErrUnknownFormat     = errors.New("unknown frame format")
	ErrUnknownEngine     = errors.New("unknown markdown engine")
	ErrUnknownDirection  = errors.New("unknown reading direction")

	// External tool errors.
	ErrRendererNotFound = errors.New("PDF renderer not found in PATH")
	ErrCompilerNotFound = errors.New("typst compiler not found in PATH")
	ErrRenderFailed     = errors.New("page rendering failed")
	ErrCompileFailed    = errors.New("typst compilation failed")

	// Image input errors.
	ErrImageDecode = errors.New("failed to decode image")

	// Browser rendering errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
