package formatter

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/jacoelho/jpq/internal/jsonpath"
)

var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrUnknownMode   = errors.New("unknown output mode")
)

// Format selects the encoding of each result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Mode selects which part of each result is written.
type Mode string

const (
	ModeValues Mode = "values"
	ModePaths  Mode = "paths"
	ModePairs  Mode = "pairs"
)

// Formatter writes query results as they are produced. Flush must be called
// once after the last result.
type Formatter interface {
	Format(found jsonpath.Found) error
	Flush() error
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (want text, json or yaml)", ErrUnknownFormat, s)
}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeValues, ModePaths, ModePairs:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (want values, paths or pairs)", ErrUnknownMode, s)
}

// New returns a buffered formatter writing to w.
func New(format Format, mode Mode, w io.Writer) (Formatter, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	bw := bufio.NewWriter(w)
	switch format {
	case FormatText:
		return &textFormatter{w: bw, mode: mode}, nil
	case FormatJSON:
		return newJSONFormatter(bw, mode), nil
	case FormatYAML:
		return &yamlFormatter{w: bw, mode: mode}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
