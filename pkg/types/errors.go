package types

import "errors"

// Domain errors for tag parsing and pattern generation
var (
	// Tag database errors
	ErrMalformedLine = errors.New("malformed tag line: expected name<TAB>file")

	// Query errors
	ErrEmptyQuery   = errors.New("query cannot be empty")
	ErrUnsafeEscape = errors.New("query cannot be escaped safely")
)
