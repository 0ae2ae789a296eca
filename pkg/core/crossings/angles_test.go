package crossings

import (
	"math"
	"testing"

	"github.com/matzehuels/gdcross/pkg/core/drawing"
)

func approxSlice(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

var (
	crossNodes = []drawing.Node{nd("1", 0, 0), nd("2", 1, 0), nd("3", 1, 1), nd("4", 0, 1)}
	teeNodes   = []drawing.Node{nd("1", -1, 0), nd("2", 1, 0), nd("3", 0, 0), nd("4", 0, 1)}
	skewNodes  = []drawing.Node{nd("1", 0, 0), nd("2", 1, 0), nd("3", -1, -1), nd("4", 1, 1)}
)

func TestAngles(t *testing.T) {
	tests := []struct {
		name  string
		nodes []drawing.Node
		edges [][2]string
		want  []float64
	}{
		{"crossing diagonals", crossNodes, [][2]string{{"1", "3"}, {"2", "4"}}, []float64{90, 90, 90, 90}},
		{"stem on a horizontal", teeNodes, [][2]string{{"1", "2"}, {"3", "4"}}, []float64{90, 180, 90}},
		{"edge ending on a diagonal", skewNodes, [][2]string{{"1", "2"}, {"3", "4"}}, []float64{45, 135, 180}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := build(t, tt.nodes, tt.edges...)
			opts := Options{IncludeNodeCrossings: true, Degrees: true}
			list := detect(t, d, opts)
			if len(list) != 1 {
				t.Fatalf("got %d crossings, want 1:%s", len(list), format(list))
			}
			if got := Angles(d, list[0], opts); !approxSlice(got, tt.want) {
				t.Errorf("Angles() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnglesInRadians(t *testing.T) {
	d := build(t, crossNodes, [2]string{"1", "3"}, [2]string{"2", "4"})
	list := detect(t, d, DefaultOptions())
	want := []float64{math.Pi / 2, math.Pi / 2, math.Pi / 2, math.Pi / 2}
	if got := Angles(d, list[0], DefaultOptions()); !approxSlice(got, want) {
		t.Errorf("Angles() = %v, want %v", got, want)
	}
}

func TestAnglesAroundAnOverlap(t *testing.T) {
	d := build(t, []drawing.Node{nd("1", 0, 0), nd("2", 10, 0), nd("3", 3, 0), nd("4", 7, 0)},
		[2]string{"1", "2"}, [2]string{"3", "4"})
	list := detect(t, d, DefaultOptions())
	if len(list) != 1 || list[0].Position.IsPoint() {
		t.Fatalf("expected one overlap:%s", format(list))
	}
	got := Angles(d, list[0], Options{Degrees: true})
	want := []float64{0, 180, 0, 180}
	if !approxSlice(got, want) {
		t.Errorf("Angles() = %v, want %v", got, want)
	}
}

func TestAnglesWithoutDirections(t *testing.T) {
	d := build(t, []drawing.Node{nd("s", 0, 0)})
	c := Crossing{Position: pt(0, 0), Singletons: []string{"s"}}
	if got := Angles(d, c, Options{Degrees: true}); !approxSlice(got, []float64{360}) {
		t.Errorf("Angles() = %v, want [360]", got)
	}
}

func TestAngularResolution(t *testing.T) {
	tests := []struct {
		name  string
		nodes []drawing.Node
		edges [][2]string
		want  float64
	}{
		{"no crossings", crossNodes, [][2]string{{"1", "2"}}, 1},
		{"right angle", crossNodes, [][2]string{{"1", "3"}, {"2", "4"}}, 1},
		{"stem on a horizontal", teeNodes, [][2]string{{"1", "2"}, {"3", "4"}}, 1},
		{"edge ending on a diagonal", skewNodes, [][2]string{{"1", "2"}, {"3", "4"}}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := build(t, tt.nodes, tt.edges...)
			// Degrees must not leak into the ratio.
			opts := Options{IncludeNodeCrossings: true, Degrees: true}
			got := AngularResolution(d, detect(t, d, opts), opts)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AngularResolution() = %v, want %v", got, tt.want)
			}
		})
	}
}
