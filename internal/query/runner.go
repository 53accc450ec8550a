package query

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jacoelho/jpq/internal/config"
	"github.com/jacoelho/jpq/internal/document"
	"github.com/jacoelho/jpq/internal/exit"
	"github.com/jacoelho/jpq/internal/formatter"
	"github.com/jacoelho/jpq/internal/jsonpath"
)

// errLimitReached stops the search once --max-results matches were written.
var errLimitReached = errors.New("result limit reached")

type Runner struct {
	config    *config.Config
	criteria  []jsonpath.Criterion
	input     io.Reader
	output    io.Writer
	errOutput io.Writer
	runID     string
}

// Summary counts what a run did.
type Summary struct {
	Sources int
	Matches int
}

func New(cfg *config.Config) (*Runner, *exit.Result) {
	criteria, err := jsonpath.Compile(cfg.Expression)
	if err != nil {
		return nil, exit.Errorf("Error compiling expression %q: %v\n", cfg.Expression, err)
	}

	return &Runner{
		config:    cfg,
		criteria:  criteria,
		input:     os.Stdin,
		output:    os.Stdout,
		errOutput: os.Stderr,
		runID:     uuid.NewString(),
	}, nil
}

func (r *Runner) SetInput(rd io.Reader) {
	r.input = rd
}

func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

// Run evaluates the expression against every source and returns the process
// exit code.
func (r *Runner) Run(ctx context.Context) int {
	logger := r.config.Logger(r.errorWriter()).With("run_id", r.runID)

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	out, err := formatter.New(r.config.Format, r.config.Mode, r.payloadWriter())
	if err != nil {
		logger.Error("creating formatter", "error", err)
		return exit.CodeFailure
	}

	logger.Debug("compiled expression",
		"expression", r.config.Expression,
		"criteria", len(r.criteria),
	)

	start := time.Now()
	summary, err := r.Execute(ctx, out, logger)
	if flushErr := out.Flush(); flushErr != nil && err == nil {
		err = fmt.Errorf("writing results: %w", flushErr)
	}

	logger.Debug("query finished",
		"sources", summary.Sources,
		"matches", summary.Matches,
		"duration", time.Since(start),
	)

	if err != nil {
		logger.Error("query failed", "error", err)
		return exit.CodeFailure
	}
	return exit.CodeSuccess
}

// Execute runs the query over every configured source, writing each match to
// out as soon as it is found.
func (r *Runner) Execute(ctx context.Context, out formatter.Formatter, logger *slog.Logger) (Summary, error) {
	var s Summary

	for _, source := range r.config.Sources {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		doc, err := r.load(source)
		if err != nil {
			return s, fmt.Errorf("%s: %w", displayName(source), err)
		}
		s.Sources++

		matches, err := r.evaluate(ctx, doc, out, s.Matches)
		s.Matches += matches
		logger.Debug("source evaluated", "source", displayName(source), "matches", matches)

		if errors.Is(err, errLimitReached) {
			logger.Debug("result limit reached", "max_results", r.config.MaxResults)
			return s, nil
		}
		if err != nil {
			return s, fmt.Errorf("%s: %w", displayName(source), err)
		}
	}

	return s, nil
}

// evaluate pulls matches one at a time, checking ctx between pulls.
func (r *Runner) evaluate(ctx context.Context, doc *document.Value, out formatter.Formatter, written int) (int, error) {
	it, err := jsonpath.New(doc, r.criteria)
	if err != nil {
		return 0, err
	}

	matches := 0
	for {
		if r.config.MaxResults > 0 && written+matches >= r.config.MaxResults {
			return matches, errLimitReached
		}
		if err := ctx.Err(); err != nil {
			return matches, err
		}

		found, ok := it.Next()
		if !ok {
			return matches, nil
		}
		if err := out.Format(found); err != nil {
			return matches, fmt.Errorf("writing result: %w", err)
		}
		matches++
	}
}

func (r *Runner) load(source string) (*document.Value, error) {
	var rd io.Reader
	if source == config.StdinSource {
		if r.input == nil {
			return nil, document.ErrEmptyDocument
		}
		rd = r.input
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		rd = f
	}

	if inputFormat(r.config.Input, source) == config.InputYAML {
		return document.DecodeYAML(rd)
	}

	if r.config.Fast {
		data, err := io.ReadAll(rd)
		if err != nil {
			return nil, err
		}
		return document.ParseFast(data)
	}
	return document.DecodeJSON(bufio.NewReader(rd))
}

// inputFormat resolves InputAuto from the file extension; standard input
// and unknown extensions are read as JSON.
func inputFormat(input, source string) string {
	if input != config.InputAuto {
		return input
	}
	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		return config.InputYAML
	}
	return config.InputJSON
}

func displayName(source string) string {
	if source == config.StdinSource {
		return "<stdin>"
	}
	return source
}
