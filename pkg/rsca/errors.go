package rsca

import "errors"

// Error taxonomy for packaging and extraction. Callers classify with
// errors.Is; messages wrapped around these carry the offending path,
// entry name, or offset.
var (
	// Writer side
	ErrValidation   = errors.New("invalid packaging input")
	ErrTemplateRead = errors.New("template read failed")
	ErrSourceRead   = errors.New("source read failed")
	ErrWrite        = errors.New("output write failed")

	// Reader side
	ErrNoArchive         = errors.New("no resource archive attached")
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	ErrCorruptArchive    = errors.New("corrupt archive")
	ErrExtractionDir     = errors.New("extraction directory unavailable")
	ErrExtraction        = errors.New("extraction failed")
	ErrPathResolution    = errors.New("extraction path resolution failed")
)
