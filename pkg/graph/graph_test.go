package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gdcross/pkg/core/crossings"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	gderrors "github.com/matzehuels/gdcross/pkg/errors"
	"github.com/matzehuels/gdcross/pkg/geom"
)

func square(t *testing.T) *drawing.Drawing {
	t.Helper()
	d := drawing.New(nil)
	for _, n := range []drawing.Node{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 1, Y: 0},
		{ID: "c", X: 1, Y: 1, Meta: drawing.Metadata{"label": "top right"}},
		{ID: "d", X: 0, Y: 1},
	} {
		if err := d.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"a", "c"}, {"b", "d"}} {
		if err := d.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func TestFromDrawing(t *testing.T) {
	d := square(t)
	_ = d.AddNode(drawing.Node{ID: "x", X: 0.5, Y: 0.5, Kind: drawing.KindCrossing})

	g := FromDrawing(d)
	if len(g.Nodes) != 5 || len(g.Edges) != 2 {
		t.Fatalf("got %s, want 5 nodes, 2 edges", g.Summary())
	}
	if g.Nodes[0].ID != "a" || g.Nodes[4].ID != "x" {
		t.Errorf("node order = %s..%s, want insertion order", g.Nodes[0].ID, g.Nodes[4].ID)
	}
	if !g.Nodes[4].IsCrossing() {
		t.Error("crossing kind lost")
	}
	if g.Nodes[2].Meta["label"] != "top right" {
		t.Errorf("meta = %v", g.Nodes[2].Meta)
	}
	if g.Nodes[0].Meta != nil {
		t.Errorf("empty meta should be omitted, got %v", g.Nodes[0].Meta)
	}
	if g.Edges[0] != (Edge{From: "a", To: "c"}) {
		t.Errorf("edge = %v", g.Edges[0])
	}
}

func TestToDrawingErrors(t *testing.T) {
	nodes := []Node{{ID: "a"}, {ID: "b", X: 1}}
	tests := []struct {
		name string
		g    Drawing
		code gderrors.Code
	}{
		{"multi edge", Drawing{Nodes: nodes, Edges: []Edge{{"a", "b"}, {"b", "a"}}}, gderrors.ErrCodeMultiEdge},
		{"unknown node", Drawing{Nodes: nodes, Edges: []Edge{{"a", "z"}}}, gderrors.ErrCodeUnknownNode},
		{"duplicate node", Drawing{Nodes: append(nodes, Node{ID: "a"})}, gderrors.ErrCodeInvalidInput},
		{"empty id", Drawing{Nodes: []Node{{ID: ""}}}, gderrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToDrawing(tt.g)
			if !gderrors.Is(err, tt.code) {
				t.Errorf("ToDrawing() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestToDrawingAllowsSelfLoops(t *testing.T) {
	d, err := ToDrawing(Drawing{Nodes: []Node{{ID: "a"}}, Edges: []Edge{{"a", "a"}}})
	if err != nil {
		t.Fatal(err)
	}
	if d.EdgeCount() != 1 || d.Degree("a") != 2 {
		t.Errorf("edges = %d, degree = %d", d.EdgeCount(), d.Degree("a"))
	}
}

func TestDrawingValidate(t *testing.T) {
	good := Drawing{Nodes: []Node{{ID: "a"}, {ID: "b"}}, Edges: []Edge{{"a", "b"}}}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	bad := Drawing{Nodes: []Node{{ID: "a"}}, Edges: []Edge{{"a", "b"}}}
	if err := bad.Validate(); !gderrors.Is(err, gderrors.ErrCodeUnknownNode) {
		t.Errorf("Validate() = %v, want UNKNOWN_NODE", err)
	}
}

func TestMarshalDrawingRoundTrip(t *testing.T) {
	d := square(t)
	data, err := MarshalDrawing(d)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalDrawing(data)
	if err != nil {
		t.Fatal(err)
	}
	h1, _ := Hash(d)
	h2, _ := Hash(back)
	if h1 != h2 {
		t.Errorf("hash changed after round trip: %s vs %s", h1, h2)
	}
}

func TestUnmarshalDrawingRejectsGarbage(t *testing.T) {
	_, err := UnmarshalDrawing([]byte("{nodes"))
	if !gderrors.Is(err, gderrors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestHashIgnoresFormatting(t *testing.T) {
	a, err := ReadDrawing(strings.NewReader(`{"nodes":[{"id":"a","x":1,"y":2}],"edges":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	b, err := ReadDrawing(strings.NewReader("{\n  \"edges\": [],\n  \"nodes\": [ {\"y\": 2, \"x\": 1.0, \"id\": \"a\"} ]\n}"))
	if err != nil {
		t.Fatal(err)
	}
	ha, _ := Hash(a)
	hb, _ := Hash(b)
	if ha != hb {
		t.Errorf("Hash differs: %s vs %s", ha, hb)
	}

	_ = b.AddNode(drawing.Node{ID: "b"})
	if hc, _ := Hash(b); hc == ha {
		t.Error("Hash did not change after adding a node")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	d := square(t)

	jsonPath := filepath.Join(dir, "square.json")
	geoPath := filepath.Join(dir, "square.geojson")
	for _, p := range []string{jsonPath, geoPath} {
		if err := WriteDrawingFile(d, p); err != nil {
			t.Fatalf("WriteDrawingFile(%s): %v", p, err)
		}
		got, err := ReadFile(p)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", p, err)
		}
		if got.NodeCount() != 4 || got.EdgeCount() != 2 || !got.HasEdge("a", "c") {
			t.Errorf("%s: got %d nodes, %d edges", p, got.NodeCount(), got.EdgeCount())
		}
	}

	raw, _ := os.ReadFile(geoPath)
	if !bytes.Contains(raw, []byte(`"FeatureCollection"`)) {
		t.Errorf("geojson file is not a FeatureCollection: %s", raw)
	}

	_, err := ReadFile(filepath.Join(dir, "missing.json"))
	if !gderrors.Is(err, gderrors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"a.json":         "json",
		"a.geojson":      "geojson",
		"dir/A.GeoJSON":  "geojson",
		"no-extension":   "json",
		"a.geojson.json": "json",
	}
	for path, want := range tests {
		if got := FormatOf(path); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestCrossingsConversion(t *testing.T) {
	tol := geom.DefaultTolerance
	list := []crossings.Crossing{
		{
			Position: crossings.PointAt(geom.V(0.5, 0.5)),
			Edges:    []drawing.Edge{{U: "a", V: "c"}, {U: "d", V: "b"}},
		},
		{
			Position:   crossings.LineBetween(tol, geom.V(7, 0), geom.V(3, 0)),
			Edges:      []drawing.Edge{{U: "e", V: "f"}, {U: "g", V: "h"}},
			Singletons: []string{"s"},
		},
	}

	wire := FromCrossings(list)
	if wire[0].Kind != CrossingPoint || *wire[0].Point != (Point{0.5, 0.5}) {
		t.Errorf("point crossing = %+v", wire[0])
	}
	if wire[1].Kind != CrossingLine || wire[1].Line[0] != (Point{3, 0}) {
		t.Errorf("line crossing = %+v", wire[1])
	}
	if wire[0].Edges[1] != (Edge{From: "d", To: "b"}) {
		t.Errorf("edge orientation lost: %v", wire[0].Edges[1])
	}

	data, err := json.Marshal(wire)
	if err != nil {
		t.Fatal(err)
	}
	var decoded []Crossing
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	back, err := ToCrossings(decoded, tol)
	if err != nil {
		t.Fatal(err)
	}
	for i := range list {
		if !back[i].Position.Equal(tol, list[i].Position) {
			t.Errorf("crossing %d position = %v, want %v", i, back[i].Position, list[i].Position)
		}
		if len(back[i].Edges) != len(list[i].Edges) || len(back[i].Singletons) != len(list[i].Singletons) {
			t.Errorf("crossing %d participants = %+v", i, back[i])
		}
	}
}

func TestToCrossingsErrors(t *testing.T) {
	tests := []struct {
		name string
		c    Crossing
	}{
		{"point missing", Crossing{Kind: CrossingPoint}},
		{"short line", Crossing{Kind: CrossingLine, Line: []Point{{0, 0}}}},
		{"unknown kind", Crossing{Kind: "blob"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToCrossings([]Crossing{tt.c}, geom.DefaultTolerance)
			if !gderrors.Is(err, gderrors.ErrCodeInvalidFormat) {
				t.Errorf("error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestFromOptionsResolvesDefaults(t *testing.T) {
	got := FromOptions(crossings.Options{IncludeNodeCrossings: true})
	want := Options{Tolerance: 1e-9, IncludeNodeCrossings: true, Algorithm: "sweep"}
	if got != want {
		t.Errorf("FromOptions() = %+v, want %+v", got, want)
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	r := Report{ID: "r1", DrawingHash: "abc", Metrics: Metrics{Count: 2, Density: 0.5}}
	if err := WriteReport(r, &buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"id": "r1"`, `"drawing_hash": "abc"`, `"count": 2`, `"density": 0.5`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("report JSON missing %s:\n%s", want, buf.String())
		}
	}
}
