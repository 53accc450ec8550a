package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jacoelho/jpq/internal/exit"
	"github.com/jacoelho/jpq/internal/formatter"
	"github.com/jacoelho/jpq/internal/jsonpath"
)

// StdinSource names standard input among the sources.
const StdinSource = "-"

// Input formats for documents.
const (
	InputAuto = "auto"
	InputJSON = "json"
	InputYAML = "yaml"
)

// Log output formats.
const (
	LogText = "text"
	LogJSON = "json"
)

var (
	ErrNoArguments       = errors.New("no arguments provided")
	ErrNoExpression      = errors.New("no JSONPath expression specified")
	ErrInvalidInput      = errors.New("input must be auto, json or yaml")
	ErrInvalidLogFormat  = errors.New("log format must be text or json")
	ErrNegativeLimit     = errors.New("max results cannot be negative")
	ErrNegativeTimeout   = errors.New("timeout cannot be negative")
	ErrFastRequiresJSON  = errors.New("--fast only applies to JSON input")
	ErrStdinMoreThanOnce = errors.New("standard input can only be read once")
)

// Config represents the complete configuration for the jpq tool.
type Config struct {
	// Query
	Expression string
	Sources    []string // file paths; StdinSource reads standard input

	// Decoding
	Input string
	Fast  bool // parse JSON with fastjson instead of encoding/json

	// Output
	Format     formatter.Format
	Mode       formatter.Mode
	MaxResults int // 0 = unlimited

	// Execution
	Timeout   time.Duration // 0 = no deadline
	Debug     bool
	LogFormat string
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Expression == "" {
		return ErrNoExpression
	}
	if err := jsonpath.Validate(c.Expression); err != nil {
		return fmt.Errorf("invalid expression %q: %w", c.Expression, err)
	}

	switch c.Input {
	case InputAuto, InputJSON, InputYAML:
	default:
		return fmt.Errorf("%w, got: %s", ErrInvalidInput, c.Input)
	}
	if c.Fast && c.Input == InputYAML {
		return ErrFastRequiresJSON
	}

	if _, err := formatter.ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if _, err := formatter.ParseMode(string(c.Mode)); err != nil {
		return err
	}

	switch c.LogFormat {
	case LogText, LogJSON:
	default:
		return fmt.Errorf("%w, got: %s", ErrInvalidLogFormat, c.LogFormat)
	}

	if c.MaxResults < 0 {
		return ErrNegativeLimit
	}
	if c.Timeout < 0 {
		return ErrNegativeTimeout
	}

	stdin := 0
	for _, source := range c.Sources {
		if source == StdinSource {
			stdin++
			continue
		}
		if _, err := os.Stat(source); err != nil {
			return fmt.Errorf("source file %s not found: %w", source, err)
		}
	}
	if stdin > 1 {
		return ErrStdinMoreThanOnce
	}

	return nil
}

// Logger creates the diagnostics logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if c.Debug {
		opts.Level = slog.LevelDebug
	}

	if c.LogFormat == LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		output     = fs.String("output", string(formatter.ModeValues), "What to print per match: values, paths or pairs")
		format     = fs.String("format", string(formatter.FormatText), "Output encoding: text, json or yaml")
		input      = fs.String("input", InputAuto, "Document format: auto, json or yaml")
		fast       = fs.Bool("fast", false, "Parse JSON documents with the fastjson parser")
		maxResults = fs.Int("max-results", 0, "Stop after N matches across all sources (0 for unlimited)")
		timeout    = fs.Duration("timeout", 0, "Abort the query after this duration (0 for no limit)")
		debug      = fs.Bool("debug", false, "Enable debug logging on stderr")
		logFormat  = fs.String("log-format", LogText, "Log encoding: text or json")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Usagef("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	positional := fs.Args()
	if len(positional) == 0 {
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoExpression, Usage())
	}

	sources := positional[1:]
	if len(sources) == 0 {
		sources = []string{StdinSource}
	}

	config := &Config{
		Expression: positional[0],
		Sources:    sources,
		Input:      *input,
		Fast:       *fast,
		Format:     formatter.Format(*format),
		Mode:       formatter.Mode(*output),
		MaxResults: *maxResults,
		Timeout:    *timeout,
		Debug:      *debug,
		LogFormat:  *logFormat,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Usagef("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jpq - query JSON and YAML documents with JSONPath

Usage: jpq [options] <expression> [file1] [file2] ...

Reads standard input when no file is given, or for the file name "-".
Options must come before the expression.

Supported expressions: $, .name, ['name'], .*, [*], [n]

Options:
  --output MODE           What to print per match: values, paths or pairs (default: values)
  --format FORMAT         Output encoding: text, json or yaml (default: text)
  --input FORMAT          Document format: auto, json or yaml (default: auto, by file extension)
  --fast                  Parse JSON documents with the fastjson parser
  --max-results N         Stop after N matches across all sources (0 for unlimited)
  --timeout DURATION      Abort the query after this duration (0 for no limit)
  --debug                 Enable debug logging on stderr
  --log-format FORMAT     Log encoding: text or json (default: text)
  -h, --help              Show this help message

Examples:
  jpq '$.user.age' user.json                    # Print a single value
  jpq --output pairs '$.pets[*].name' pets.json # Print paths and values
  jpq --format yaml '$.items.*' doc.yaml        # Query YAML, print YAML
  curl -s https://example.com/api | jpq '$.data[0]'`
}
