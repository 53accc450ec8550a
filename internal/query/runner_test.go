package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jacoelho/jpq/internal/config"
	"github.com/jacoelho/jpq/internal/document"
	"github.com/jacoelho/jpq/internal/exit"
	"github.com/jacoelho/jpq/internal/formatter"
	"github.com/jacoelho/jpq/internal/jsonpath"
)

const petsJSON = `{"pets":[{"type":"cat","name":"Tom"},{"type":"dog","name":"Rex"}],"user":{"name":"Sergey","age":27}}`

const petsYAML = `pets:
  - type: parrot
    name: Polly
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newConfig(expr string, sources ...string) *config.Config {
	return &config.Config{
		Expression: expr,
		Sources:    sources,
		Input:      config.InputAuto,
		Format:     formatter.FormatText,
		Mode:       formatter.ModeValues,
		LogFormat:  config.LogText,
	}
}

func fastConfig(expr string, sources ...string) *config.Config {
	c := newConfig(expr, sources...)
	c.Fast = true
	return c
}

func newRunner(t *testing.T, cfg *config.Config, stdin string) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	r, result := New(cfg)
	if result != nil {
		t.Fatalf("New() exit result = %q", result.Message)
	}

	var stdout, stderr bytes.Buffer
	r.SetInput(strings.NewReader(stdin))
	r.SetOutput(&stdout)
	r.SetErrorOutput(&stderr)
	return r, &stdout, &stderr
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()
	jsonFile := writeFile(t, dir, "pets.json", petsJSON)
	yamlFile := writeFile(t, dir, "pets.yml", petsYAML)
	noExt := writeFile(t, dir, "pets", petsJSON)

	tests := []struct {
		name   string
		cfg    func() *config.Config
		stdin  string
		expect string
	}{
		{
			name:   "single_file",
			cfg:    func() *config.Config { return newConfig("$.pets[*].name", jsonFile) },
			expect: "\"Tom\"\n\"Rex\"\n",
		},
		{
			name:   "stdin",
			cfg:    func() *config.Config { return newConfig("$.user.*", config.StdinSource) },
			stdin:  petsJSON,
			expect: "27\n\"Sergey\"\n",
		},
		{
			name:   "json_and_yaml_sources",
			cfg:    func() *config.Config { return newConfig("$.pets.*.name", jsonFile, yamlFile) },
			expect: "\"Tom\"\n\"Rex\"\n\"Polly\"\n",
		},
		{
			name: "forced_yaml_input",
			cfg: func() *config.Config {
				c := newConfig("$.pets[0].type", noExt)
				c.Input = config.InputYAML
				return c
			},
			expect: "\"cat\"\n",
		},
		{
			name: "fast_parser",
			cfg: func() *config.Config {
				c := newConfig("$.pets[1]", jsonFile)
				c.Fast = true
				return c
			},
			expect: `{"name":"Rex","type":"dog"}` + "\n",
		},
		{
			name: "max_results_across_sources",
			cfg: func() *config.Config {
				c := newConfig("$.pets.*.name", jsonFile, yamlFile)
				c.MaxResults = 1
				return c
			},
			expect: "\"Tom\"\n",
		},
		{
			name: "max_results_spanning_sources",
			cfg: func() *config.Config {
				c := newConfig("$.pets.*.name", jsonFile, yamlFile)
				c.MaxResults = 3
				return c
			},
			expect: "\"Tom\"\n\"Rex\"\n\"Polly\"\n",
		},
		{
			name: "pairs_json",
			cfg: func() *config.Config {
				c := newConfig("$.user.age", jsonFile)
				c.Format = formatter.FormatJSON
				c.Mode = formatter.ModePairs
				return c
			},
			expect: `{"path":"$.user.age","value":27}` + "\n",
		},
		{
			name:   "no_matches",
			cfg:    func() *config.Config { return newConfig("$.cars.*", jsonFile) },
			expect: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stdout, stderr := newRunner(t, tt.cfg(), tt.stdin)

			if code := r.Run(context.Background()); code != exit.CodeSuccess {
				t.Fatalf("Run() = %d, want %d; stderr: %s", code, exit.CodeSuccess, stderr.String())
			}
			if got := stdout.String(); got != tt.expect {
				t.Errorf("stdout = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestRunner_RunErrors(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.json", `{"pets": [`)
	valid := writeFile(t, dir, "valid.json", `{"pets": ["a"]}`)

	tests := []struct {
		name      string
		cfg       *config.Config
		stdin     string
		wantOut   string
		wantInLog string
	}{
		{
			name:      "malformed_document",
			cfg:       newConfig("$.pets", broken),
			wantInLog: "broken.json",
		},
		{
			name:      "missing_file",
			cfg:       newConfig("$.pets", filepath.Join(dir, "gone.json")),
			wantInLog: "gone.json",
		},
		{
			name:      "empty_stdin",
			cfg:       newConfig("$", config.StdinSource),
			wantInLog: "<stdin>",
		},
		{
			name:      "fast_rejects_invalid_numbers",
			cfg:       fastConfig("$[*]", config.StdinSource),
			stdin:     `[nan, 01]`,
			wantInLog: "invalid number literal",
		},
		{
			name:      "results_before_failure_are_kept",
			cfg:       newConfig("$.pets[0]", valid, broken),
			wantOut:   "\"a\"\n",
			wantInLog: "query failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, stdout, stderr := newRunner(t, tt.cfg, tt.stdin)

			if code := r.Run(context.Background()); code != exit.CodeFailure {
				t.Errorf("Run() = %d, want %d", code, exit.CodeFailure)
			}
			if got := stdout.String(); got != tt.wantOut {
				t.Errorf("stdout = %q, want %q", got, tt.wantOut)
			}
			if !strings.Contains(stderr.String(), tt.wantInLog) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantInLog)
			}
		})
	}
}

func TestRunner_RunCancelled(t *testing.T) {
	r, stdout, stderr := newRunner(t, newConfig("$", config.StdinSource), `{"a":1}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := r.Run(ctx); code != exit.CodeFailure {
		t.Errorf("Run() = %d, want %d", code, exit.CodeFailure)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
	if !strings.Contains(stderr.String(), context.Canceled.Error()) {
		t.Errorf("stderr = %q, want cancellation", stderr.String())
	}
}

func TestRunner_DebugLogsCarryRunID(t *testing.T) {
	cfg := newConfig("$.user.age", config.StdinSource)
	cfg.Debug = true
	cfg.LogFormat = config.LogJSON

	r, _, stderr := newRunner(t, cfg, petsJSON)
	if code := r.Run(context.Background()); code != exit.CodeSuccess {
		t.Fatalf("Run() = %d; stderr: %s", code, stderr.String())
	}

	var messages []string
	for _, line := range strings.Split(strings.TrimSpace(stderr.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		if entry["run_id"] != r.runID {
			t.Errorf("run_id = %v, want %s", entry["run_id"], r.runID)
		}
		messages = append(messages, entry["msg"].(string))
	}

	want := []string{"compiled expression", "source evaluated", "query finished"}
	if strings.Join(messages, ",") != strings.Join(want, ",") {
		t.Errorf("messages = %v, want %v", messages, want)
	}
}

func TestRunner_Execute(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.json", `[1,2,3]`)
	second := writeFile(t, dir, "b.json", `[4]`)

	r, _, _ := newRunner(t, newConfig("$[*]", first, second), "")

	var buf bytes.Buffer
	out, err := formatter.New(formatter.FormatText, formatter.ModePaths, &buf)
	if err != nil {
		t.Fatal(err)
	}

	summary, err := r.Execute(context.Background(), out, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if err := out.Flush(); err != nil {
		t.Fatal(err)
	}

	if summary != (Summary{Sources: 2, Matches: 4}) {
		t.Errorf("summary = %+v, want 2 sources, 4 matches", summary)
	}
	if got, want := buf.String(), "$[0]\n$[1]\n$[2]\n$[0]\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEvaluateStopsAtDeadline(t *testing.T) {
	r, _, _ := newRunner(t, newConfig("$[*]", config.StdinSource), "")

	doc, err := document.DecodeJSON(strings.NewReader(`[1,2,3]`))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	var buf bytes.Buffer
	out, _ := formatter.New(formatter.FormatText, formatter.ModeValues, &buf)
	matches, err := r.evaluate(ctx, doc, out, 0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("evaluate() error = %v, want %v", err, context.DeadlineExceeded)
	}
	if matches != 0 {
		t.Errorf("matches = %d, want 0", matches)
	}
}

func TestNewRejectsInvalidExpression(t *testing.T) {
	r, result := New(newConfig("$..a", config.StdinSource))
	if r != nil || result == nil {
		t.Fatalf("New() = %v, %v, want exit result", r, result)
	}
	if result.ExitCode != exit.CodeFailure {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, exit.CodeFailure)
	}
	if !strings.Contains(result.Message, jsonpath.ErrNotSupported.Error()) {
		t.Errorf("Message = %q", result.Message)
	}
}

func TestInputFormat(t *testing.T) {
	tests := []struct {
		input, source, want string
	}{
		{config.InputAuto, "doc.yaml", config.InputYAML},
		{config.InputAuto, "doc.YML", config.InputYAML},
		{config.InputAuto, "doc.json", config.InputJSON},
		{config.InputAuto, "doc", config.InputJSON},
		{config.InputAuto, config.StdinSource, config.InputJSON},
		{config.InputJSON, "doc.yaml", config.InputJSON},
		{config.InputYAML, config.StdinSource, config.InputYAML},
	}

	for _, tt := range tests {
		if got := inputFormat(tt.input, tt.source); got != tt.want {
			t.Errorf("inputFormat(%s, %s) = %s, want %s", tt.input, tt.source, got, tt.want)
		}
	}
}
