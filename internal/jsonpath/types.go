package jsonpath

import (
	"strconv"
)

const (
	StepRoot StepKind = iota
	StepKey
	StepIndex
)

// StepKind tells how a node was reached from its parent.
type StepKind uint8

// Step is one hop of a route through a document. Key is set for StepKey,
// Index for StepIndex.
type Step struct {
	Kind  StepKind
	Key   string
	Index int
}

// RootStep is the step that reaches the document itself.
func RootStep() Step {
	return Step{Kind: StepRoot}
}

// KeyStep reaches an object member.
func KeyStep(key string) Step {
	return Step{Kind: StepKey, Key: key}
}

// IndexStep reaches an array element.
func IndexStep(index int) Step {
	return Step{Kind: StepIndex, Index: index}
}

func (s Step) String() string {
	switch s.Kind {
	case StepRoot:
		return "$"
	case StepKey:
		return quoteName(s.Key)
	case StepIndex:
		return strconv.Itoa(s.Index)
	}
	return "?"
}

const (
	MatchRoot CriterionKind = iota
	MatchName
	MatchAny
	MatchIndex
)

// CriterionKind selects the rule a Criterion applies to a Step.
type CriterionKind uint8

// Criterion is one compiled pattern segment.
type Criterion struct {
	Kind  CriterionKind
	Name  string // for MatchName
	Index int    // for MatchIndex
}

// Root matches only the document itself.
func Root() Criterion {
	return Criterion{Kind: MatchRoot}
}

// NamedChild matches the object member called name.
func NamedChild(name string) Criterion {
	return Criterion{Kind: MatchName, Name: name}
}

// AnyChild matches every member and element.
func AnyChild() Criterion {
	return Criterion{Kind: MatchAny}
}

// IndexedChild matches the array element at index.
func IndexedChild(index int) Criterion {
	return Criterion{Kind: MatchIndex, Index: index}
}

// String renders the criterion as the expression segment it was compiled from.
func (c Criterion) String() string {
	switch c.Kind {
	case MatchRoot:
		return "$"
	case MatchName:
		if isIdentifier(c.Name) {
			return "." + c.Name
		}
		return "[" + quoteName(c.Name) + "]"
	case MatchAny:
		return ".*"
	case MatchIndex:
		return "[" + strconv.Itoa(c.Index) + "]"
	}
	return "?"
}
