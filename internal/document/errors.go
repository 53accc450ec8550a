package document

import "errors"

var (
	// ErrEmptyDocument indicates the input held no value at all.
	ErrEmptyDocument = errors.New("document: empty input")

	// ErrMalformed indicates the input is not a well-formed document.
	ErrMalformed = errors.New("document: malformed input")

	// ErrTrailingData indicates extra content after the first complete value.
	ErrTrailingData = errors.New("document: unexpected data after top-level value")

	// ErrDuplicateKey indicates distinct map keys that render to the same member name.
	ErrDuplicateKey = errors.New("document: duplicate key")

	// ErrUnsupportedType indicates a Go value that has no document representation.
	ErrUnsupportedType = errors.New("document: unsupported value type")
)
