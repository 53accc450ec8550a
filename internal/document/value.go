package document

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Kind identifies the variant held by a Value.
type Kind uint8

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a node of the document tree. The zero Value is null.
type Value struct {
	kind    Kind
	truth   bool
	text    string // string contents or number literal
	items   []*Value
	members []Member // sorted by Key, unique
}

var null = &Value{kind: KindNull}

func Null() *Value {
	return null
}

func Bool(b bool) *Value {
	return &Value{kind: KindBool, truth: b}
}

func Number(n json.Number) *Value {
	return &Value{kind: KindNumber, text: string(n)}
}

func String(s string) *Value {
	return &Value{kind: KindString, text: s}
}

// Array keeps items in the given order. Nil items are stored as null.
func Array(items ...*Value) *Value {
	out := make([]*Value, len(items))
	for i, item := range items {
		out[i] = orNull(item)
	}
	return &Value{kind: KindArray, items: out}
}

// Object sorts the members by key. Nil values are stored as null.
func Object(fields map[string]*Value) *Value {
	members := make([]Member, 0, len(fields))
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		members = append(members, Member{Key: key, Value: orNull(fields[key])})
	}
	return &Value{kind: KindObject, members: members}
}

// objectFromPairs builds an object from members in source order. A repeated
// key keeps the last value, as encoding/json does.
func objectFromPairs(pairs []Member) *Value {
	slices.SortStableFunc(pairs, func(a, b Member) int {
		return strings.Compare(a.Key, b.Key)
	})

	members := pairs[:0]
	for _, m := range pairs {
		m.Value = orNull(m.Value)
		if n := len(members); n > 0 && members[n-1].Key == m.Key {
			members[n-1] = m
			continue
		}
		members = append(members, m)
	}
	return &Value{kind: KindObject, members: slices.Clip(members)}
}

func orNull(v *Value) *Value {
	if v == nil {
		return null
	}
	return v
}

func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// Len returns the number of direct children; zero for scalars and null.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	}
	return 0
}

// Index returns the i-th array element.
func (v *Value) Index(i int) (*Value, bool) {
	if v.Kind() != KindArray || i < 0 || i >= len(v.items) {
		return nil, false
	}
	return v.items[i], true
}

// Member returns the i-th object member in ascending key order.
func (v *Value) Member(i int) (Member, bool) {
	if v.Kind() != KindObject || i < 0 || i >= len(v.members) {
		return Member{}, false
	}
	return v.members[i], true
}

// Get looks up an object member by key.
func (v *Value) Get(key string) (*Value, bool) {
	if v.Kind() != KindObject {
		return nil, false
	}
	i, found := slices.BinarySearchFunc(v.members, key, func(m Member, k string) int {
		return strings.Compare(m.Key, k)
	})
	if !found {
		return nil, false
	}
	return v.members[i].Value, true
}

// Truth reports the boolean held by a bool value.
func (v *Value) Truth() bool {
	return v.Kind() == KindBool && v.truth
}

// Text returns the contents of a string or the literal of a number.
func (v *Value) Text() string {
	switch v.Kind() {
	case KindString, KindNumber:
		return v.text
	}
	return ""
}

// Interface converts the tree into plain Go data: nil, bool, json.Number,
// string, []any and map[string]any.
func (v *Value) Interface() any {
	switch v.Kind() {
	case KindBool:
		return v.truth
	case KindNumber:
		return json.Number(v.text)
	case KindString:
		return v.text
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	}
	return nil
}

func (v *Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// String renders the value as compact JSON without HTML escaping.
func (v *Value) String() string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v.Interface()); err != nil {
		return "<invalid: " + err.Error() + ">"
	}
	return strings.TrimSuffix(b.String(), "\n")
}
