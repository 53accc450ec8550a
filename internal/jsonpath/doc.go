// Package jsonpath evaluates compiled path patterns against document trees.
//
// A pattern is a []Criterion whose first element is Root; Compile builds one
// from a JSONPath expression such as "$.pets[*].name". Iter walks the tree
// depth-first with an explicit stack of frames and hands out one Found per
// call to Next, so a search can be paused after any result and resumed later
// without collecting the rest.
//
// Supported segments:
//   - Root `$`
//   - Name `.name`, `['name']`, `["name"]`
//   - Wildcard `.*`, `[*]`
//   - Array index `[n]` with n >= 0
//
// Descendant segments, slices, unions and filters raise ErrNotSupported at
// compile time.
//
// Object members are visited in ascending key order and array elements in
// ascending index order, so results are deterministic for a given document.
package jsonpath
