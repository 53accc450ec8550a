package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/valyala/fastjson"
)

// ParseFast parses a JSON document held entirely in memory. It accepts the
// same inputs as DecodeJSON and is cheaper on large documents.
func ParseFast(data []byte) (*Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return fromFast(v)
}

// fromFast copies out of the parser's buffers, which are reused on the next parse.
func fromFast(v *fastjson.Value) (*Value, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return Null(), nil
	case fastjson.TypeTrue:
		return Bool(true), nil
	case fastjson.TypeFalse:
		return Bool(false), nil
	case fastjson.TypeNumber:
		// fastjson is lenient about numbers (nan, inf, 01, .5, 1.)
		literal := v.String()
		if !json.Valid([]byte(literal)) {
			return nil, fmt.Errorf("%w: invalid number literal %q", ErrMalformed, literal)
		}
		return Number(json.Number(literal)), nil
	case fastjson.TypeString:
		b, err := v.StringBytes()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return String(string(b)), nil
	case fastjson.TypeArray:
		elems, err := v.Array()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		items := make([]*Value, len(elems))
		for i, elem := range elems {
			child, err := fromFast(elem)
			if err != nil {
				return nil, err
			}
			items[i] = child
		}
		return &Value{kind: KindArray, items: items}, nil
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		pairs := make([]Member, 0, obj.Len())
		var visitErr error
		obj.Visit(func(key []byte, elem *fastjson.Value) {
			if visitErr != nil {
				return
			}
			child, err := fromFast(elem)
			if err != nil {
				visitErr = err
				return
			}
			pairs = append(pairs, Member{Key: string(key), Value: child})
		})
		if visitErr != nil {
			return nil, visitErr
		}
		return objectFromPairs(pairs), nil
	}
	return nil, fmt.Errorf("%w: unknown JSON type %s", ErrMalformed, v.Type())
}
