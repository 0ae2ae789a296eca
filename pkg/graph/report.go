package graph

import (
	"slices"
	"time"

	"github.com/matzehuels/gdcross/pkg/core/crossings"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	gderrors "github.com/matzehuels/gdcross/pkg/errors"
	"github.com/matzehuels/gdcross/pkg/geom"
)

// Crossing kinds.
const (
	CrossingPoint = "point"
	CrossingLine  = "line"
)

// =============================================================================
// Crossing - Detection Result Serialization
// =============================================================================

// Point is a plane coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

func pointOf(v geom.Vector) Point { return Point{X: v.X, Y: v.Y} }

func (p Point) vector() geom.Vector { return geom.V(p.X, p.Y) }

// Crossing is one detected crossing. Point is set for kind "point", Line
// holds start and end for kind "line".
type Crossing struct {
	Kind       string   `json:"kind" bson:"kind"`
	Point      *Point   `json:"point,omitempty" bson:"point,omitempty"`
	Line       []Point  `json:"line,omitempty" bson:"line,omitempty"`
	Edges      []Edge   `json:"edges" bson:"edges"`
	Singletons []string `json:"singletons,omitempty" bson:"singletons,omitempty"`
}

// FromCrossings converts detection results to their serialization format.
func FromCrossings(list []crossings.Crossing) []Crossing {
	out := make([]Crossing, len(list))
	for i, c := range list {
		wc := Crossing{
			Edges:      make([]Edge, len(c.Edges)),
			Singletons: slices.Clone(c.Singletons),
		}
		switch c.Position.Kind {
		case crossings.PositionPoint:
			p := pointOf(c.Position.Point)
			wc.Kind, wc.Point = CrossingPoint, &p
		case crossings.PositionLine:
			wc.Kind = CrossingLine
			wc.Line = []Point{pointOf(c.Position.Line.Start), pointOf(c.Position.Line.End)}
		}
		for j, e := range c.Edges {
			wc.Edges[j] = Edge{From: e.U, To: e.V}
		}
		out[i] = wc
	}
	return out
}

// ToCrossings converts serialized crossings back into detection results.
// tol orders the endpoints of line crossings.
func ToCrossings(list []Crossing, tol geom.Tolerance) ([]crossings.Crossing, error) {
	out := make([]crossings.Crossing, len(list))
	for i, wc := range list {
		var c crossings.Crossing
		switch wc.Kind {
		case CrossingPoint:
			if wc.Point == nil {
				return nil, gderrors.New(gderrors.ErrCodeInvalidFormat, "crossing %d: point missing", i)
			}
			c.Position = crossings.PointAt(wc.Point.vector())
		case CrossingLine:
			if len(wc.Line) != 2 {
				return nil, gderrors.New(gderrors.ErrCodeInvalidFormat, "crossing %d: line needs 2 points, got %d", i, len(wc.Line))
			}
			c.Position = crossings.LineBetween(tol, wc.Line[0].vector(), wc.Line[1].vector())
		default:
			return nil, gderrors.New(gderrors.ErrCodeInvalidFormat, "crossing %d: unknown kind %q", i, wc.Kind)
		}
		c.Edges = make([]drawing.Edge, len(wc.Edges))
		for j, e := range wc.Edges {
			c.Edges[j] = drawing.Edge{U: e.From, V: e.To}
		}
		c.Singletons = slices.Clone(wc.Singletons)
		out[i] = c
	}
	return out, nil
}

// =============================================================================
// Report - Persisted Detection Run
// =============================================================================

// Options records the detection settings a report was produced with.
type Options struct {
	Tolerance            float64 `json:"tolerance" bson:"tolerance"`
	IncludeNodeCrossings bool    `json:"include_node_crossings" bson:"include_node_crossings"`
	IncludeSingletons    bool    `json:"include_singletons" bson:"include_singletons"`
	Algorithm            string  `json:"algorithm" bson:"algorithm"`
}

// FromOptions converts detection options, resolving defaults.
func FromOptions(o crossings.Options) Options {
	alg := o.Algorithm
	if alg == "" {
		alg = crossings.AlgorithmSweep
	}
	return Options{
		Tolerance:            float64(o.Tol()),
		IncludeNodeCrossings: o.IncludeNodeCrossings,
		IncludeSingletons:    o.IncludeSingletons,
		Algorithm:            string(alg),
	}
}

// Metrics are the aggregate measures derived from a crossing list.
type Metrics struct {
	Count             int     `json:"count" bson:"count"`
	MaxCrossings      int     `json:"max_crossings" bson:"max_crossings"`
	Density           float64 `json:"density" bson:"density"`
	AngularResolution float64 `json:"angular_resolution" bson:"angular_resolution"`
}

// Report is the stored result of one detection run.
type Report struct {
	ID          string     `json:"id,omitempty" bson:"_id"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	Source      string     `json:"source,omitempty" bson:"source,omitempty"`
	DrawingHash string     `json:"drawing_hash" bson:"drawing_hash"`
	Options     Options    `json:"options" bson:"options"`
	Crossings   []Crossing `json:"crossings" bson:"crossings"`
	Metrics     Metrics    `json:"metrics" bson:"metrics"`
}
