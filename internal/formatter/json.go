package formatter

import (
	"bufio"
	"encoding/json"

	"github.com/jacoelho/jpq/internal/jsonpath"
)

type pairJSON struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// jsonFormatter writes one JSON document per line.
type jsonFormatter struct {
	w    *bufio.Writer
	enc  *json.Encoder
	mode Mode
}

func newJSONFormatter(w *bufio.Writer, mode Mode) *jsonFormatter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &jsonFormatter{w: w, enc: enc, mode: mode}
}

func (f *jsonFormatter) Format(found jsonpath.Found) error {
	switch f.mode {
	case ModePaths:
		return f.enc.Encode(found.PathString())
	case ModePairs:
		return f.enc.Encode(pairJSON{Path: found.PathString(), Value: found.Value.Interface()})
	}
	return f.enc.Encode(found.Value.Interface())
}

func (f *jsonFormatter) Flush() error {
	return f.w.Flush()
}
