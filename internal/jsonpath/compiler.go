package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Compile turns a JSONPath expression into a pattern whose first criterion
// is Root.
func Compile(expr string) ([]Criterion, error) {
	if err := validateExpression(expr); err != nil {
		return nil, err
	}

	criteria := []Criterion{Root()}
	i := 1 // current parsing index in expr, after '$'

	for i < len(expr) {
		c, newIndex, err := parseSegment(expr, i)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
		i = newIndex
	}

	return criteria, nil
}

// Validate checks if a JSONPath expression is syntactically valid and within
// the supported subset.
func Validate(expr string) error {
	_, err := Compile(expr)
	return err
}

// ValidateCriteria checks the shape of a pattern built by hand: it must be
// non-empty and hold a single Root, at index 0.
func ValidateCriteria(criteria []Criterion) error {
	if len(criteria) == 0 {
		return ErrEmptyPattern
	}
	if criteria[0].Kind != MatchRoot {
		return fmt.Errorf("%w: pattern starts with %s", ErrRootPlacement, criteria[0])
	}
	for i, c := range criteria[1:] {
		switch c.Kind {
		case MatchRoot:
			return fmt.Errorf("%w: found at index %d", ErrRootPlacement, i+1)
		case MatchName, MatchAny:
		case MatchIndex:
			if c.Index < 0 {
				return fmt.Errorf("%w: negative array index %d at index %d", ErrNotSupported, c.Index, i+1)
			}
		default:
			return fmt.Errorf("%w: unknown criterion kind %d at index %d", ErrSyntax, c.Kind, i+1)
		}
	}
	return nil
}

func validateExpression(expr string) error {
	if expr == "" {
		return fmt.Errorf("%w: expression cannot be empty", ErrSyntax)
	}
	if expr[0] != '$' || (len(expr) > 1 && expr[1] != '.' && expr[1] != '[') {
		return fmt.Errorf("%w: expression must start with '$', '$.', or '$['", ErrSyntax)
	}
	return nil
}

func parseSegment(expr string, i int) (Criterion, int, error) {
	switch expr[i] {
	case '.':
		return parseDotSegment(expr, i)
	case '[':
		return parseBracketSegment(expr, i)
	}
	return Criterion{}, i, fmt.Errorf("%w: unexpected token '%c' at position %d, expected '.' or '['", ErrSyntax, expr[i], i)
}

func parseDotSegment(expr string, i int) (Criterion, int, error) {
	i++ // consume '.'
	if i < len(expr) && expr[i] == '.' {
		return Criterion{}, i, fmt.Errorf("%w: descendant segment '..' at position %d", ErrNotSupported, i-1)
	}
	if i >= len(expr) {
		return Criterion{}, i, fmt.Errorf("%w: path segment cannot end with '.'", ErrSyntax)
	}

	if expr[i] == '*' {
		return AnyChild(), i + 1, nil
	}

	start := i
	for i < len(expr) && idRune(expr[i]) {
		i++
	}
	if start == i {
		return Criterion{}, i, fmt.Errorf("%w: name selector cannot be empty after '.' at position %d", ErrSyntax, start-1)
	}
	return NamedChild(expr[start:i]), i, nil
}

func parseBracketSegment(expr string, i int) (Criterion, int, error) {
	open := i
	i = skipSpaces(expr, i+1) // consume '['
	if i >= len(expr) {
		return Criterion{}, i, fmt.Errorf("%w: unterminated bracket selector at position %d, missing ']'", ErrSyntax, open)
	}

	var (
		c   Criterion
		err error
	)
	switch ch := expr[i]; {
	case ch == '?':
		return Criterion{}, i, fmt.Errorf("%w: filter expression at position %d", ErrNotSupported, i)
	case ch == '*':
		c, i = AnyChild(), i+1
	case ch == '\'' || ch == '"':
		var name string
		name, i, err = parseQuotedName(expr, i)
		if err != nil {
			return Criterion{}, i, err
		}
		c = NamedChild(name)
	case ch == '-' || ch == ':' || isDigit(ch):
		c, i, err = parseIndex(expr, i)
		if err != nil {
			return Criterion{}, i, err
		}
	default:
		return Criterion{}, i, fmt.Errorf("%w: invalid content '%c' in bracket selector at position %d", ErrSyntax, ch, i)
	}

	next, err := closeBracket(expr, i, open)
	if err != nil {
		return Criterion{}, next, err
	}
	return c, next, nil
}

// closeBracket expects the ']' ending the selector opened at open and returns
// the index after it.
func closeBracket(expr string, i, open int) (int, error) {
	i = skipSpaces(expr, i)
	if i >= len(expr) {
		return i, fmt.Errorf("%w: unterminated bracket selector at position %d, missing ']'", ErrSyntax, open)
	}
	switch expr[i] {
	case ']':
		return i + 1, nil
	case ',':
		return i, fmt.Errorf("%w: union selector at position %d", ErrNotSupported, open)
	case ':':
		return i, fmt.Errorf("%w: slice selector at position %d", ErrNotSupported, open)
	}
	return i, fmt.Errorf("%w: unexpected '%c' at position %d, expected ']'", ErrSyntax, expr[i], i)
}

func parseIndex(expr string, i int) (Criterion, int, error) {
	start := i
	if expr[i] == '-' {
		i++
	}
	for i < len(expr) && isDigit(expr[i]) {
		i++
	}

	if i < len(expr) && expr[i] == ':' {
		return Criterion{}, i, fmt.Errorf("%w: slice selector at position %d", ErrNotSupported, start)
	}

	literal := expr[start:i]
	idx, err := strconv.Atoi(literal)
	if err != nil {
		return Criterion{}, i, fmt.Errorf("%w: invalid array index '%s' at position %d", ErrSyntax, literal, start)
	}
	if idx < 0 {
		return Criterion{}, i, fmt.Errorf("%w: negative array index (%d)", ErrNotSupported, idx)
	}
	if literal == "-0" || (len(literal) > 1 && literal[0] == '0') {
		return Criterion{}, i, fmt.Errorf("%w: array index '%s' has leading zeros", ErrSyntax, literal)
	}
	return IndexedChild(idx), i, nil
}

// parseQuotedName reads a single- or double-quoted name starting at the
// opening quote and returns the index after the closing quote.
func parseQuotedName(expr string, i int) (string, int, error) {
	quote := expr[i]
	start := i
	i++

	var b strings.Builder
	for i < len(expr) {
		ch := expr[i]
		switch {
		case ch == quote:
			return b.String(), i + 1, nil
		case ch == '\\':
			r, next, err := parseEscape(expr, i)
			if err != nil {
				return "", next, err
			}
			b.WriteRune(r)
			i = next
		default:
			r, size := utf8.DecodeRuneInString(expr[i:])
			b.WriteRune(r)
			i += size
		}
	}
	return "", i, fmt.Errorf("%w: unterminated quoted name starting at position %d", ErrSyntax, start)
}

func parseEscape(expr string, i int) (rune, int, error) {
	if i+1 >= len(expr) {
		return 0, i, fmt.Errorf("%w: unterminated escape at position %d", ErrSyntax, i)
	}

	switch ch := expr[i+1]; ch {
	case '\\', '\'', '"', '/':
		return rune(ch), i + 2, nil
	case 'b':
		return '\b', i + 2, nil
	case 'f':
		return '\f', i + 2, nil
	case 'n':
		return '\n', i + 2, nil
	case 'r':
		return '\r', i + 2, nil
	case 't':
		return '\t', i + 2, nil
	case 'u':
		if i+6 > len(expr) {
			return 0, i, fmt.Errorf("%w: short unicode escape at position %d", ErrSyntax, i)
		}
		code, err := strconv.ParseUint(expr[i+2:i+6], 16, 32)
		if err != nil {
			return 0, i, fmt.Errorf("%w: invalid unicode escape '%s' at position %d", ErrSyntax, expr[i:i+6], i)
		}
		return rune(code), i + 6, nil
	}
	return 0, i, fmt.Errorf("%w: invalid escape '\\%c' at position %d", ErrSyntax, expr[i+1], i)
}

func skipSpaces(expr string, i int) int {
	for i < len(expr) && (expr[i] == ' ' || expr[i] == '\t') {
		i++
	}
	return i
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// idRune checks if a byte is valid for unquoted names after '.'.
func idRune(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || isDigit(b) || b == '_' || b == '-'
}
