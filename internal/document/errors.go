package document

import "errors"

// Domain errors for template rendering and format conversion
var (
	// Template errors
	ErrInvalidTemplate   = errors.New("template is not a valid docx archive")
	ErrMalformedDocument = errors.New("document part has no body")

	// Conversion errors
	ErrConversionFailed = errors.New("pdf conversion failed")
	ErrEmptyOutput      = errors.New("converted pdf has no pages")
)
