package formatter

import (
	"bufio"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/jacoelho/jpq/internal/document"
	"github.com/jacoelho/jpq/internal/jsonpath"
)

// yamlFormatter writes each result as one item of a top-level sequence, so
// the concatenated output is a single YAML document.
type yamlFormatter struct {
	w    *bufio.Writer
	mode Mode
}

func (f *yamlFormatter) Format(found jsonpath.Found) error {
	var item any
	switch f.mode {
	case ModePaths:
		item = found.PathString()
	case ModePairs:
		item = yaml.MapSlice{
			{Key: "path", Value: found.PathString()},
			{Key: "value", Value: yamlValue(found.Value)},
		}
	default:
		item = yamlValue(found.Value)
	}

	payload, err := yaml.Marshal([]any{item})
	if err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	_, err = f.w.Write(payload)
	return err
}

func (f *yamlFormatter) Flush() error {
	return f.w.Flush()
}

// yamlValue converts a document node into values the YAML encoder renders
// natively, keeping object members in key order.
func yamlValue(v *document.Value) any {
	switch v.Kind() {
	case document.KindBool:
		return v.Truth()
	case document.KindNumber:
		return yamlNumber(v.Text())
	case document.KindString:
		return v.Text()
	case document.KindArray:
		items := make([]any, v.Len())
		for i := range items {
			child, _ := v.Index(i)
			items[i] = yamlValue(child)
		}
		return items
	case document.KindObject:
		members := make(yaml.MapSlice, v.Len())
		for i := range members {
			m, _ := v.Member(i)
			members[i] = yaml.MapItem{Key: m.Key, Value: yamlValue(m.Value)}
		}
		return members
	}
	return nil
}

// yamlNumber is a number literal written verbatim, so precision and range
// survive the YAML encoder.
type yamlNumber string

func (n yamlNumber) MarshalYAML() ([]byte, error) {
	return []byte(n), nil
}
