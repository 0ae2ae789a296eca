package crossings

import (
	"math"
	"strconv"
	"testing"

	"github.com/matzehuels/gdcross/pkg/core/drawing"
)

// abstract builds a drawing whose geometry does not matter.
func abstract(t *testing.T, n int, edges ...[2]int) *drawing.Drawing {
	t.Helper()
	nodes := make([]drawing.Node, n)
	for i := range n {
		nodes[i] = nd(strconv.Itoa(i), float64(i), float64(i*i))
	}
	named := make([][2]string, len(edges))
	for i, e := range edges {
		named[i] = [2]string{strconv.Itoa(e[0]), strconv.Itoa(e[1])}
	}
	return build(t, nodes, named...)
}

func triangles(k int) [][2]int {
	var edges [][2]int
	for i := range k {
		a := 3 * i
		edges = append(edges, [2]int{a, a + 1}, [2]int{a + 1, a + 2}, [2]int{a, a + 2})
	}
	return edges
}

func TestMaxCrossings(t *testing.T) {
	disjoint := make([][2]int, 100)
	for i := range disjoint {
		disjoint[i] = [2]int{2 * i, 2*i + 1}
	}

	tests := []struct {
		name    string
		nodes   int
		edges   [][2]int
		want    int
		tighter int
	}{
		{"empty", 0, nil, 0, 0},
		{"single edge", 2, [][2]int{{0, 1}}, 0, 0},
		{"triangle", 3, triangles(1), 0, -3},
		{"bowtie", 5, [][2]int{{0, 1}, {1, 2}, {0, 2}, {2, 3}, {3, 4}, {2, 4}}, 5, 1},
		{"triangles sharing an edge", 4, [][2]int{{0, 1}, {0, 2}, {1, 2}, {1, 3}, {2, 3}}, 2, 0},
		{"four-cycle", 4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}, 2, 1},
		{"twenty triangles", 60, triangles(20), 1710, 1710 - (60 + 190*3)},
		{"hundred disjoint edges", 200, disjoint, 4950, 4950},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := abstract(t, tt.nodes, tt.edges...)
			if got := MaxCrossings(d, false); got != tt.want {
				t.Errorf("MaxCrossings(false) = %d, want %d", got, tt.want)
			}
			if got := MaxCrossings(d, true); got != tt.tighter {
				t.Errorf("MaxCrossings(true) = %d, want %d", got, tt.tighter)
			}
		})
	}
}

func TestCount(t *testing.T) {
	list := []Crossing{
		{Position: pt(0, 0), Edges: []drawing.Edge{{U: "a", V: "b"}, {U: "c", V: "d"}}},
		{Position: pt(1, 0), Edges: []drawing.Edge{{U: "a", V: "b"}, {U: "e", V: "f"}, {U: "g", V: "h"}, {U: "i", V: "j"}}},
		{Position: pt(2, 0), Singletons: []string{"s", "t"}},
	}
	if got := Count(list); got != 1+6 {
		t.Errorf("Count() = %d, want 7", got)
	}
	if got := Count(nil); got != 0 {
		t.Errorf("Count(nil) = %d, want 0", got)
	}
}

func TestCountFourEdgesThroughOnePoint(t *testing.T) {
	d := build(t, []drawing.Node{
		nd("1", -1, 1), nd("2", 0, 1), nd("3", 1, 1), nd("4", -1, 0),
		nd("5", 1, 0), nd("6", -1, -1), nd("7", 0, -1), nd("8", 1, -1),
	}, [2]string{"1", "8"}, [2]string{"2", "7"}, [2]string{"3", "6"}, [2]string{"4", "5"})
	if got := Count(detect(t, d, DefaultOptions())); got != 6 {
		t.Errorf("Count() = %d, want 6", got)
	}
}

func TestDensity(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		opts  Options
		want  float64
	}{
		{"no edges", nil, DefaultOptions(), 1},
		{"crossing diagonals", [][2]string{{"1", "3"}, {"2", "4"}}, DefaultOptions(), 0},
		{
			"complete graph",
			[][2]string{{"1", "2"}, {"1", "3"}, {"1", "4"}, {"2", "3"}, {"2", "4"}, {"3", "4"}},
			DefaultOptions(),
			1 - 1.0/3,
		},
		{
			"four-cycle with one crossing",
			[][2]string{{"1", "3"}, {"3", "2"}, {"2", "4"}, {"4", "1"}},
			Options{TighterBound: true},
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := build(t, square, tt.edges...)
			got := Density(d, detect(t, d, tt.opts), tt.opts)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Density() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDensityIsClamped(t *testing.T) {
	// A triangle has a negative tighter bound; the density must stay in range.
	d := build(t, square[:3], [2]string{"1", "2"}, [2]string{"2", "3"}, [2]string{"1", "3"})
	opts := Options{TighterBound: true}
	if got := Density(d, nil, opts); got != 1 {
		t.Errorf("Density() = %v, want 1", got)
	}
	list := []Crossing{{Edges: []drawing.Edge{{U: "1", V: "2"}, {U: "2", V: "3"}}}}
	if got := Density(d, list, opts); got != 0 {
		t.Errorf("Density() = %v, want 0", got)
	}
}
