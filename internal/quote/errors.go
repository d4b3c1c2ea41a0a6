package quote

import "errors"

// Domain errors for line-item extraction and pricing
var (
	// Extraction errors
	ErrInvalidNumber = errors.New("invalid numeric field")

	// Pricing errors
	ErrInvalidMaxPerBox = errors.New("max-per-box must be a positive number")
)
