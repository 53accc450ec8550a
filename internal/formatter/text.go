package formatter

import (
	"bufio"

	"github.com/jacoelho/jpq/internal/jsonpath"
)

// textFormatter writes one line per result; values are compact JSON and
// pairs are separated by a tab.
type textFormatter struct {
	w    *bufio.Writer
	mode Mode
}

func (f *textFormatter) Format(found jsonpath.Found) error {
	switch f.mode {
	case ModePaths:
		f.w.WriteString(found.PathString())
	case ModePairs:
		f.w.WriteString(found.PathString())
		f.w.WriteByte('\t')
		f.w.WriteString(found.Value.String())
	default:
		f.w.WriteString(found.Value.String())
	}
	return f.w.WriteByte('\n')
}

func (f *textFormatter) Flush() error {
	return f.w.Flush()
}
