package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeJSON reads exactly one JSON value from r.
func DecodeJSON(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDocument
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	root, err := decodeToken(dec, tok)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return root, nil
}

func decodeToken(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("%w: unexpected delimiter %q", ErrMalformed, t)
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	}
	return nil, fmt.Errorf("%w: unexpected token %v", ErrMalformed, tok)
}

func decodeObject(dec *json.Decoder) (*Value, error) {
	var pairs []Member
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		if d, ok := tok.(json.Delim); ok && d == '}' {
			return objectFromPairs(pairs), nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key must be a string", ErrMalformed)
		}

		valueTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		child, err := decodeToken(dec, valueTok)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Member{Key: key, Value: child})
	}
}

func decodeArray(dec *json.Decoder) (*Value, error) {
	items := make([]*Value, 0)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		if d, ok := tok.(json.Delim); ok && d == ']' {
			return &Value{kind: KindArray, items: items}, nil
		}

		child, err := decodeToken(dec, tok)
		if err != nil {
			return nil, err
		}
		items = append(items, child)
	}
}
