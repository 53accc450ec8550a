package jsonpath

import "errors"

var (
	// ErrSyntax indicates a JSONPath expression syntax error during compilation.
	ErrSyntax = errors.New("jsonpath: syntax error")

	// ErrNotSupported indicates a JSONPath feature outside the supported subset.
	ErrNotSupported = errors.New("jsonpath: feature not supported")

	// ErrEmptyPattern indicates a pattern with no criteria.
	ErrEmptyPattern = errors.New("jsonpath: empty pattern")

	// ErrRootPlacement indicates a pattern that does not start with exactly one Root.
	ErrRootPlacement = errors.New("jsonpath: root criterion must appear exactly once, first")
)
