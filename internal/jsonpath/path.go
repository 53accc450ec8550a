package jsonpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jacoelho/jpq/internal/document"
)

// FormatPath renders steps in normalized form: identifier-like keys use dot
// notation, other keys are single-quoted in brackets, indexes use brackets.
// The output compiles back to a pattern that matches exactly this route.
func FormatPath(path []Step) string {
	var b strings.Builder
	b.WriteByte('$')
	for _, step := range path {
		switch step.Kind {
		case StepKey:
			if isIdentifier(step.Key) {
				b.WriteByte('.')
				b.WriteString(step.Key)
			} else {
				b.WriteByte('[')
				b.WriteString(quoteName(step.Key))
				b.WriteByte(']')
			}
		case StepIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(step.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Resolve follows path from doc with direct member and index lookups. Root
// steps are skipped.
func Resolve(doc *document.Value, path []Step) (*document.Value, bool) {
	current := doc
	for _, step := range path {
		var ok bool
		switch step.Kind {
		case StepRoot:
			continue
		case StepKey:
			current, ok = current.Get(step.Key)
		case StepIndex:
			current, ok = current.Index(step.Index)
		}
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Criteria turns a concrete route into the pattern that matches only it.
func Criteria(path []Step) []Criterion {
	criteria := []Criterion{Root()}
	for _, step := range path {
		switch step.Kind {
		case StepKey:
			criteria = append(criteria, NamedChild(step.Key))
		case StepIndex:
			criteria = append(criteria, IndexedChild(step.Index))
		}
	}
	return criteria
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := range len(name) {
		if !idRune(name[i]) {
			return false
		}
	}
	return true
}

func quoteName(name string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range name {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
