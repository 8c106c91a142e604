// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/querygraph/internal/cli/output"
)

// CarsSchema is the catalog written by SetupTestProject.
const CarsSchema = `tables:
  - type: CarCompany
    name: carcompany
    primary_key: uid
    auto_increment: true
    columns:
      - { name: uid, type: integer }
      - { name: name, type: text }
  - type: Marque
    name: marque
    primary_key: uid
    columns:
      - { name: uid, type: integer }
      - { name: name, type: string }
      - { name: fk_carcompany, type: bigint }
    foreign_keys:
      - { column: fk_carcompany, references: carcompany }
`

// ToyotaRequest selects the marques of one car company.
const ToyotaRequest = `tables:
  - table: carcompany
    filters:
      - { column: name, op: eq, value: TOYOTA }
  - table: marque
    exclude: [fk_carcompany]
order:
  - { column: marque.name }
limit: 10
`

// Project is a temporary querygraph project on disk.
type Project struct {
	Dir     string
	Config  string
	Schema  string
	Request string
	DB      string
}

// SetupTestProject creates a temporary project with a sqlite target, the
// cars schema and one request.
func SetupTestProject(t *testing.T) *Project {
	t.Helper()

	dir := t.TempDir()
	p := &Project{
		Dir:     dir,
		Config:  filepath.Join(dir, "querygraph.yaml"),
		Schema:  filepath.Join(dir, "cars.yaml"),
		Request: filepath.Join(dir, "requests", "toyota.yaml"),
		DB:      filepath.Join(dir, "cars.db"),
	}
	if err := os.MkdirAll(filepath.Dir(p.Request), 0o755); err != nil {
		t.Fatalf("failed to create requests directory: %v", err)
	}

	cfg := `schema: cars.yaml
target:
  type: sqlite
  database: cars.db
environments:
  pg:
    target:
      type: postgres
      dialect: postgres
`
	files := map[string]string{
		p.Config:  cfg,
		p.Schema:  CarsSchema,
		p.Request: ToyotaRequest,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return p
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
