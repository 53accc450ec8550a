// Package document holds the immutable tree that path queries run against.
//
// A Value is one of null, bool, number, string, array or object. Numbers keep
// their literal text as a json.Number. Object members are kept sorted by key,
// so every enumeration of an object visits keys in ascending byte order
// regardless of the order they appeared in the source.
//
// Trees are built by DecodeJSON, ParseFast, DecodeYAML or FromAny and are never
// modified afterwards; any number of goroutines may read the same tree.
package document
