package jsonpath

import (
	"github.com/jacoelho/jpq/internal/document"
)

// Cursor enumerates the direct children of one node. Objects yield members in
// ascending key order, arrays yield elements by index, anything else yields
// nothing. A Cursor never rewinds.
type Cursor struct {
	node *document.Value
	pos  int
}

func NewCursor(node *document.Value) Cursor {
	return Cursor{node: node}
}

// Next returns the next child and the step that reaches it, or false once
// the children are exhausted.
func (c *Cursor) Next() (Step, *document.Value, bool) {
	switch c.node.Kind() {
	case document.KindArray:
		if child, ok := c.node.Index(c.pos); ok {
			step := IndexStep(c.pos)
			c.pos++
			return step, child, true
		}
	case document.KindObject:
		if m, ok := c.node.Member(c.pos); ok {
			c.pos++
			return KeyStep(m.Key), m.Value, true
		}
	}
	return Step{}, nil, false
}
