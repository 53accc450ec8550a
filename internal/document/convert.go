package document

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// FromAny builds a tree from decoded Go data, such as the output of
// json.Unmarshal or a YAML decoder. Map keys that are not strings are
// rendered with fmt; keys that render to the same name yield ErrDuplicateKey.
func FromAny(data any) (*Value, error) {
	switch v := data.(type) {
	case nil:
		return Null(), nil
	case *Value:
		return orNull(v), nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case json.Number:
		return Number(v), nil
	case int:
		return Number(json.Number(strconv.FormatInt(int64(v), 10))), nil
	case int8:
		return Number(json.Number(strconv.FormatInt(int64(v), 10))), nil
	case int16:
		return Number(json.Number(strconv.FormatInt(int64(v), 10))), nil
	case int32:
		return Number(json.Number(strconv.FormatInt(int64(v), 10))), nil
	case int64:
		return Number(json.Number(strconv.FormatInt(v, 10))), nil
	case uint:
		return Number(json.Number(strconv.FormatUint(uint64(v), 10))), nil
	case uint8:
		return Number(json.Number(strconv.FormatUint(uint64(v), 10))), nil
	case uint16:
		return Number(json.Number(strconv.FormatUint(uint64(v), 10))), nil
	case uint32:
		return Number(json.Number(strconv.FormatUint(uint64(v), 10))), nil
	case uint64:
		return Number(json.Number(strconv.FormatUint(v, 10))), nil
	case float32:
		return fromFloat(float64(v), 32)
	case float64:
		return fromFloat(v, 64)
	case []any:
		items := make([]*Value, len(v))
		for i, item := range v {
			child, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = child
		}
		return &Value{kind: KindArray, items: items}, nil
	case map[string]any:
		pairs := make([]Member, 0, len(v))
		for key, item := range v {
			child, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			pairs = append(pairs, Member{Key: key, Value: child})
		}
		return objectFromPairs(pairs), nil
	case map[any]any:
		pairs := make([]Member, 0, len(v))
		seen := make(map[string]struct{}, len(v))
		for key, item := range v {
			name := fmt.Sprint(key)
			if _, ok := seen[name]; ok {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, name)
			}
			seen[name] = struct{}{}
			child, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", name, err)
			}
			pairs = append(pairs, Member{Key: name, Value: child})
		}
		return objectFromPairs(pairs), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, data)
}

func fromFloat(f float64, bitSize int) (*Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: non-finite number %v", ErrUnsupportedType, f)
	}
	return Number(json.Number(strconv.FormatFloat(f, 'f', -1, bitSize))), nil
}
