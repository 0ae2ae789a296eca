package pipeline

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gdcross/pkg/cache"
	"github.com/matzehuels/gdcross/pkg/core/crossings"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	gderrors "github.com/matzehuels/gdcross/pkg/errors"
	"github.com/matzehuels/gdcross/pkg/graph"
)

// square returns the unit square with both diagonals and the bottom side.
func square(t *testing.T) *drawing.Drawing {
	t.Helper()
	d := drawing.New(nil)
	for _, n := range []drawing.Node{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 2, Y: 0},
		{ID: "c", X: 2, Y: 2},
		{ID: "d", X: 0, Y: 2},
	} {
		if err := d.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"a", "c"}, {"b", "d"}, {"a", "b"}} {
		if err := d.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code gderrors.Code
	}{
		{"defaults", Options{}, ""},
		{"negative tolerance", Options{Tolerance: -1}, gderrors.ErrCodeInvalidOptions},
		{"nan tolerance", Options{Tolerance: math.NaN()}, gderrors.ErrCodeInvalidOptions},
		{"unknown algorithm", Options{Algorithm: "brute"}, gderrors.ErrCodeInvalidAlgorithm},
		{"singletons alone", Options{IncludeSingletons: true}, gderrors.ErrCodeInvalidOptions},
		{"singletons with nodes", Options{IncludeSingletons: true, IncludeNodeCrossings: true}, ""},
		{"bad format", Options{Format: "bmp"}, gderrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !gderrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDefaultsAreApplied(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Tolerance != DefaultTolerance || opts.Algorithm != DefaultAlgorithm ||
		opts.Format != DefaultRenderFormat || opts.Scale != DefaultScale || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op: %v", err)
	}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	d := square(t)

	res, err := r.Analyze(ctx, d, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("first run should miss the cache")
	}
	if res.Metrics.Count != 1 || len(res.Crossings) != 1 {
		t.Errorf("metrics = %+v", res.Metrics)
	}
	// 3 edges, degrees a=2, b=2, c=1, d=1: C(3,2) - 1 - 1 = 1 possible crossing,
	// and it happens.
	if res.Metrics.MaxCrossings != 1 || res.Metrics.Density != 0 {
		t.Errorf("bound = %d, density = %v", res.Metrics.MaxCrossings, res.Metrics.Density)
	}
	if res.Metrics.AngularResolution != 1 {
		t.Errorf("angular resolution = %v, want 1", res.Metrics.AngularResolution)
	}
	if res.Stats.NodeCount != 4 || res.Stats.EdgeCount != 3 || res.DrawingHash == "" {
		t.Errorf("stats = %+v, hash = %q", res.Stats, res.DrawingHash)
	}

	again, err := r.Analyze(ctx, d, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheHit {
		t.Error("second run should hit the cache")
	}
	if !again.Crossings[0].Position.Equal(1e-9, res.Crossings[0].Position) ||
		len(again.Crossings[0].Edges) != 2 {
		t.Errorf("cached crossing = %+v, want %+v", again.Crossings[0], res.Crossings[0])
	}

	fresh, err := r.Analyze(ctx, d, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestAnalyzeCacheKeyDependsOnOptions(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	d := square(t)

	if _, err := r.Analyze(ctx, d, Options{}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Analyze(ctx, d, Options{IncludeNodeCrossings: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("different options should not share cache entries")
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil).Analyze(ctx, square(t), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestAngles(t *testing.T) {
	d := square(t)
	list, err := crossings.Quadratic(d, crossings.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	got := Angles(d, list, Options{Degrees: true})
	if len(got) != 1 || len(got[0]) != 4 {
		t.Fatalf("Angles() = %v", got)
	}
	for _, a := range got[0] {
		if math.Abs(a-90) > 1e-9 {
			t.Errorf("angle = %v, want 90", a)
		}
	}
}

func TestPlanarize(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	d := square(t)

	out, res, err := r.Planarize(ctx, d, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if d.NodeCount() != 4 || d.EdgeCount() != 3 {
		t.Error("Planarize must not modify its input")
	}
	if out.NodeCount() != 5 || out.EdgeCount() != 5 {
		t.Errorf("planarized: %d nodes, %d edges, want 5 and 5", out.NodeCount(), out.EdgeCount())
	}
	if len(res.AddedNodes) != 1 || res.AddedNodes[0] != "crossing0" || res.ReplacedEdges != 2 {
		t.Errorf("result = %+v", res)
	}

	cached, cres, err := r.Planarize(ctx, d, Options{})
	if err != nil {
		t.Fatal(err)
	}
	h1, _ := graph.Hash(out)
	h2, _ := graph.Hash(cached)
	if h1 != h2 || cres.ReplacedEdges != res.ReplacedEdges || len(cres.Crossings) != 1 {
		t.Error("cached planarization differs from the computed one")
	}
}

func TestRenderDOT(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	d := square(t)
	list, _, err := r.Detect(ctx, d, Options{})
	if err != nil {
		t.Fatal(err)
	}

	out, err := r.Render(ctx, d, list, Options{Format: "dot"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `pos="1,1!"`) {
		t.Errorf("DOT output missing crossing marker:\n%s", out)
	}

	plain, err := r.Render(ctx, d, nil, Options{Format: "dot"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(plain), "__crossing") {
		t.Error("render without crossings should not reuse the highlighted artifact")
	}
}

func TestRenderCacheKeyDependsOnCrossings(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	d := square(t)
	// e sits on the bottom side a-b, so it only crosses with node crossings on.
	for _, n := range []drawing.Node{{ID: "e", X: 1, Y: 0}, {ID: "f", X: 1, Y: -1}} {
		if err := d.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.AddEdge("e", "f"); err != nil {
		t.Fatal(err)
	}

	render := func(nodeCrossings bool) string {
		t.Helper()
		opts := Options{Format: "dot", IncludeNodeCrossings: nodeCrossings}
		list, _, err := r.Detect(ctx, d, opts)
		if err != nil {
			t.Fatal(err)
		}
		out, err := r.Render(ctx, d, list, opts)
		if err != nil {
			t.Fatal(err)
		}
		return string(out)
	}

	withNodes := render(true)
	if !strings.Contains(withNodes, "__crossing1") {
		t.Fatalf("expected two crossing markers with node crossings:\n%s", withNodes)
	}
	without := render(false)
	if without == withNodes {
		t.Fatal("render without node crossings reused the artifact rendered with them")
	}
	if strings.Contains(without, "__crossing1") {
		t.Errorf("expected a single crossing marker without node crossings:\n%s", without)
	}
}

func TestResultReport(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{IncludeNodeCrossings: true}
	res, err := r.Analyze(context.Background(), square(t), opts)
	if err != nil {
		t.Fatal(err)
	}
	rep := res.Report("square.json", opts)
	if rep.Source != "square.json" || rep.DrawingHash != res.DrawingHash {
		t.Errorf("report = %+v", rep)
	}
	if !rep.Options.IncludeNodeCrossings || rep.Options.Algorithm != "sweep" {
		t.Errorf("report options = %+v", rep.Options)
	}
	if len(rep.Crossings) != 1 || rep.Metrics.Count != 1 {
		t.Errorf("report crossings = %+v", rep.Crossings)
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "square.json")
	geo := filepath.Join(dir, "square.geojson")
	for _, p := range []string{good, geo} {
		if err := graph.WriteDrawingFile(square(t), p); err != nil {
			t.Fatal(err)
		}
	}
	missing := filepath.Join(dir, "missing.json")

	r := NewRunner(nil, nil, nil)
	results, err := r.Batch(context.Background(), []string{good, missing, geo}, Options{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for _, i := range []int{0, 2} {
		if results[i].Err != nil || results[i].Result.Metrics.Count != 1 {
			t.Errorf("%s: err = %v", results[i].Path, results[i].Err)
		}
	}
	if results[1].Path != missing || !gderrors.Is(results[1].Err, gderrors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v", results[1].Err)
	}
}

func TestBatchInvalidOptions(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Batch(context.Background(), []string{"x.json"}, Options{Algorithm: "?"}, 1)
	if !gderrors.Is(err, gderrors.ErrCodeInvalidAlgorithm) {
		t.Errorf("error = %v, want INVALID_ALGORITHM", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		code gderrors.Code
	}{
		{crossings.ErrUnknownAlgorithm, gderrors.ErrCodeInvalidAlgorithm},
		{crossings.ErrSingletonsWithoutNodes, gderrors.ErrCodeInvalidOptions},
		{drawing.ErrMultiEdge, gderrors.ErrCodeMultiEdge},
		{drawing.ErrUnknownNode, gderrors.ErrCodeUnknownNode},
		{context.DeadlineExceeded, gderrors.ErrCodeTimeout},
		{gderrors.New(gderrors.ErrCodeNotFound, "kept"), gderrors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := gderrors.GetCode(classify(tt.err)); got != tt.code {
				t.Errorf("classify(%v) code = %s, want %s", tt.err, got, tt.code)
			}
		})
	}
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
}
