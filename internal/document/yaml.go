package document

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-yaml"
)

// DecodeYAML reads a single YAML document from r. Mapping keys are converted
// to strings; timestamps are kept as RFC 3339 strings.
func DecodeYAML(r io.Reader) (*Value, error) {
	dec := yaml.NewDecoder(r)

	var data any
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	return FromAny(normalizeYAML(data))
}

// normalizeYAML rewrites the few scalar types the YAML decoder produces that
// have no JSON counterpart.
func normalizeYAML(data any) any {
	switch v := data.(type) {
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case []any:
		for i, item := range v {
			v[i] = normalizeYAML(item)
		}
	case map[string]any:
		for key, item := range v {
			v[key] = normalizeYAML(item)
		}
	case map[any]any:
		for key, item := range v {
			v[key] = normalizeYAML(item)
		}
	}
	return data
}
