package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gderrors "github.com/matzehuels/gdcross/pkg/errors"
	"github.com/matzehuels/gdcross/pkg/graph"
)

// squareJSON is the unit square with both diagonals and the bottom side.
const squareJSON = `{
  "nodes": [
    {"id": "a", "x": 0, "y": 0},
    {"id": "b", "x": 2, "y": 0},
    {"id": "c", "x": 2, "y": 2},
    {"id": "d", "x": 0, "y": 2}
  ],
  "edges": [
    {"from": "a", "to": "c"},
    {"from": "b", "to": "d"},
    {"from": "a", "to": "b"}
  ]
}`

type testEnv struct {
	dir    string
	config string
	input  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:    dir,
		config: filepath.Join(dir, "config.toml"),
		input:  filepath.Join(dir, "square.json"),
	}
	cfg := fmt.Sprintf("[cache]\ndir = %q\n\n[store]\nbackend = \"file\"\ndir = %q\n",
		filepath.Join(dir, "cache"), filepath.Join(dir, "reports"))
	if err := os.WriteFile(env.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(env.input, []byte(squareJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) path(name string) string { return filepath.Join(e.dir, name) }

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"crossings", "count", "density", "angles", "resolution", "planarize",
		"render", "browse", "batch", "reports", "serve", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestMetricCommands(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"count", env.input}, "1"},
		{[]string{"count", "--algorithm", "quadratic", env.input}, "1"},
		{[]string{"density", env.input}, "0"},
		{[]string{"resolution", env.input}, "1"},
		{[]string{"angles", "--degrees", env.input}, "(1, 1)\t90 90 90 90"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[:len(tt.args)-1], " "), func(t *testing.T) {
			out, err := env.run(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnglesJSON(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "angles", "-f", "json", env.input)
	if err != nil {
		t.Fatal(err)
	}
	var angles [][]float64
	if err := json.Unmarshal([]byte(out), &angles); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(angles) != 1 || len(angles[0]) != 4 {
		t.Errorf("angles = %v", angles)
	}
}

func TestInvalidOptions(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		args []string
		code gderrors.Code
	}{
		{"algorithm", []string{"count", "--algorithm", "magic", env.input}, gderrors.ErrCodeInvalidAlgorithm},
		{"singletons", []string{"count", "--singletons", env.input}, gderrors.ErrCodeInvalidOptions},
		{"tolerance", []string{"count", "--tolerance", "-1", env.input}, gderrors.ErrCodeInvalidOptions},
		{"output format", []string{"crossings", "-f", "xml", env.input}, gderrors.ErrCodeInvalidFormat},
		{"missing file", []string{"count", env.path("nope.json")}, gderrors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			if !gderrors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCrossingsOutput(t *testing.T) {
	env := newTestEnv(t)

	table := env.path("crossings.txt")
	if _, err := env.run(t, "crossings", "-o", table, env.input); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(table)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"(1, 1)", "a-c", "b-d"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("table missing %q:\n%s", want, data)
		}
	}

	report := env.path("report.json")
	if _, err := env.run(t, "crossings", "-f", "json", "--save", "-o", report, env.input); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	var r graph.Report
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatal(err)
	}
	if len(r.Crossings) != 1 || r.Metrics.Count != 1 || r.Source != env.input {
		t.Errorf("report = %+v", r)
	}

	out, err := env.run(t, "reports", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "square.json") {
		t.Errorf("reports list does not show the saved report:\n%s", out)
	}
}

func TestCrossingsGeoJSON(t *testing.T) {
	env := newTestEnv(t)
	out := env.path("crossings.geojson")
	if _, err := env.run(t, "crossings", "-f", "geojson", "-o", out, env.input); err != nil {
		t.Fatal(err)
	}
	d, err := graph.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if d.NodeCount() != 4 || d.EdgeCount() != 3 {
		t.Errorf("geojson round trip = %d nodes, %d edges", d.NodeCount(), d.EdgeCount())
	}
}

func TestPlanarizeCommand(t *testing.T) {
	env := newTestEnv(t)
	out := env.path("planar.json")
	if _, err := env.run(t, "planarize", "-o", out, env.input); err != nil {
		t.Fatal(err)
	}
	d, err := graph.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if d.NodeCount() != 5 || d.EdgeCount() != 5 {
		t.Errorf("planarized = %d nodes, %d edges, want 5 and 5", d.NodeCount(), d.EdgeCount())
	}

	count, err := env.run(t, "count", out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(count) != "0" {
		t.Errorf("planarized drawing has %s crossings", count)
	}
}

func TestRenderDOT(t *testing.T) {
	env := newTestEnv(t)
	out := env.path("square.dot")
	if _, err := env.run(t, "render", "-o", out, env.input); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "graph G {") || !strings.Contains(string(data), "__crossing0") {
		t.Errorf("render output:\n%s", data)
	}
}

func TestBatchCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "batch", "-f", "json", env.input, env.path("missing.json"))
	if err == nil {
		t.Fatal("batch with a missing file should fail")
	}
	var reports []graph.Report
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(reports) != 1 || reports[0].Metrics.Count != 1 {
		t.Errorf("reports = %+v", reports)
	}
}

func TestCachePath(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != env.path("cache") {
		t.Errorf("cache path = %q, want %q", got, env.path("cache"))
	}

	if _, err := env.run(t, "count", env.input); err != nil {
		t.Fatal(err)
	}
	if _, err := env.run(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
}

func TestCompletion(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "gdcross") {
		t.Error("bash completion does not mention gdcross")
	}
}
