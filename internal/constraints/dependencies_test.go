package constraints

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

type goListPackage struct {
	ImportPath string
	Imports    []string
}

const modulePrefix = "github.com/jacoelho/jpq/internal/"

// layers lists, for each package, the internal packages it may import.
var layers = map[string][]string{
	"stack":     nil,
	"exit":      nil,
	"document":  nil,
	"jsonpath":  {"document", "stack"},
	"formatter": {"document", "jsonpath"},
	"config":    {"exit", "formatter", "jsonpath"},
	"query":     {"config", "document", "exit", "formatter", "jsonpath"},
}

func TestInternalPackagesRespectLayers(t *testing.T) {
	t.Parallel()

	packages := goList(t, "./internal/...")

	var violations []string
	for _, pkg := range packages {
		name := strings.TrimPrefix(pkg.ImportPath, modulePrefix)
		allowed, ok := layers[name]
		if !ok {
			continue
		}
		for _, imp := range pkg.Imports {
			if !strings.HasPrefix(imp, modulePrefix) {
				continue
			}
			dep := strings.TrimPrefix(imp, modulePrefix)
			if !contains(allowed, dep) {
				violations = append(violations, pkg.ImportPath+" imports "+imp)
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("found imports crossing layers:\n%s", strings.Join(violations, "\n"))
	}
}

func TestEnginePackagesAvoidSideEffectImports(t *testing.T) {
	t.Parallel()

	purePackages := map[string]struct{}{
		modulePrefix + "stack":    {},
		modulePrefix + "jsonpath": {},
	}

	forbidden := map[string]struct{}{
		"os":           {},
		"net/http":     {},
		"log/slog":     {},
		"math/rand":    {},
		"math/rand/v2": {},
	}

	packages := goList(t, "./internal/stack/...", "./internal/jsonpath/...")

	var violations []string
	for _, pkg := range packages {
		if _, ok := purePackages[pkg.ImportPath]; !ok {
			continue
		}
		for _, imp := range pkg.Imports {
			if _, banned := forbidden[imp]; banned {
				violations = append(violations, pkg.ImportPath+" imports forbidden package "+imp)
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("found forbidden imports in engine packages:\n%s", strings.Join(violations, "\n"))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func goList(t *testing.T, patterns ...string) []goListPackage {
	t.Helper()

	args := append([]string{"list", "-json"}, patterns...)
	cmd := exec.Command("go", args...)
	cmd.Dir = repoRoot(t)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("go list failed: %v\nstderr:\n%s", err, stderr.String())
	}

	decoder := json.NewDecoder(bytes.NewReader(stdout.Bytes()))
	var packages []goListPackage
	for decoder.More() {
		var pkg goListPackage
		if err := decoder.Decode(&pkg); err != nil {
			t.Fatalf("decode go list json: %v", err)
		}
		packages = append(packages, pkg)
	}

	return packages
}

func repoRoot(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}

	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}
