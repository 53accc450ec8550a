package jsonpath

import (
	"fmt"
	"iter"

	"github.com/jacoelho/jpq/internal/document"
	"github.com/jacoelho/jpq/internal/stack"
)

// Found is a single match: the node and the route to it from the document
// root. Path[0] is always the root step.
type Found struct {
	Value *document.Value
	Path  []Step
}

// PathString renders Path in normalized form, e.g. $.pets[0].name.
func (f Found) PathString() string {
	return FormatPath(f.Path)
}

// frame is a node under consideration: the step tested against the active
// criterion, and the cursor used to descend into or resume its children.
type frame struct {
	step   Step
	value  *document.Value
	cursor Cursor
}

func newFrame(step Step, value *document.Value) *frame {
	return &frame{step: step, value: value, cursor: NewCursor(value)}
}

// Iter is a resumable depth-first search for the routes that satisfy a
// pattern. The search depth is the number of ancestor frames on the stack,
// which is also the index of the criterion the current frame is tested
// against.
//
// An Iter is single-use and not safe for concurrent use; separate Iters may
// share a document.
type Iter struct {
	criteria []Criterion
	root     *frame
	current  *frame // nil once exhausted
	stack    *stack.Stack[*frame]
}

// New prepares a search of doc. The criteria are not copied and must not be
// modified while the Iter is in use.
func New(doc *document.Value, criteria []Criterion) (*Iter, error) {
	if err := ValidateCriteria(criteria); err != nil {
		return nil, err
	}

	root := newFrame(RootStep(), doc)
	return &Iter{
		criteria: criteria,
		root:     root,
		current:  root,
		stack:    stack.NewWithCapacity[*frame](len(criteria)),
	}, nil
}

// Select compiles expr and prepares a search of doc.
func Select(doc *document.Value, expr string) (*Iter, error) {
	criteria, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return New(doc, criteria)
}

// Next advances to the next match. It returns false once the search is
// exhausted, and keeps returning false afterwards.
func (it *Iter) Next() (Found, bool) {
	for it.current != nil {
		depth := it.stack.Size()
		criterion := it.criterionAt(depth)

		if !criterion.Matches(it.current.step, it.current == it.root) {
			it.backtrack()
			continue
		}

		if depth == len(it.criteria)-1 {
			found := it.found()
			it.backtrack()
			return found, true
		}

		step, child, ok := it.current.cursor.Next()
		if !ok {
			it.backtrack()
			continue
		}
		it.stack.Push(it.current)
		it.current = newFrame(step, child)
	}
	return Found{}, false
}

// All adapts the remaining matches to a range-over-func sequence. Breaking
// out of the loop leaves the Iter positioned after the last yielded match.
func (it *Iter) All() iter.Seq[Found] {
	return func(yield func(Found) bool) {
		for {
			found, ok := it.Next()
			if !ok || !yield(found) {
				return
			}
		}
	}
}

// backtrack replaces the current frame with the next unexplored sibling,
// climbing past ancestors whose children are exhausted.
func (it *Iter) backtrack() {
	for {
		parent, ok := it.stack.Peek()
		if !ok {
			it.current = nil
			return
		}

		if step, child, ok := parent.cursor.Next(); ok {
			it.current = newFrame(step, child)
			return
		}
		it.stack.Pop()
	}
}

func (it *Iter) criterionAt(depth int) Criterion {
	if depth >= len(it.criteria) {
		panic(fmt.Sprintf("jsonpath: search depth %d exceeds pattern of %d criteria", depth, len(it.criteria)))
	}
	return it.criteria[depth]
}

func (it *Iter) found() Found {
	path := make([]Step, 0, it.stack.Size()+1)
	for f := range it.stack.All() {
		path = append(path, f.step)
	}
	path = append(path, it.current.step)

	return Found{Value: it.current.value, Path: path}
}
