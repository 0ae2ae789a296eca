package crossings

import (
	"fmt"

	"github.com/matzehuels/gdcross/pkg/geom"
)

// PositionKind tells whether a crossing happens at a point or along a line.
type PositionKind int

const (
	// PositionPoint is a crossing at a single point.
	PositionPoint PositionKind = iota
	// PositionLine is an overlap of collinear edges.
	PositionLine
)

// String returns "point" or "line".
func (k PositionKind) String() string {
	if k == PositionLine {
		return "line"
	}
	return "point"
}

// Line is a segment of positive length shared by collinear edges. Start
// precedes End in sweep order.
type Line struct {
	Start geom.Vector
	End   geom.Vector
}

// Position locates a crossing. Point is set for [PositionPoint], Line for
// [PositionLine].
type Position struct {
	Kind  PositionKind
	Point geom.Vector
	Line  Line
}

// PointAt returns a point position.
func PointAt(p geom.Vector) Position {
	return Position{Kind: PositionPoint, Point: p}
}

// LineBetween returns a line position with its endpoints in sweep order.
func LineBetween(tol geom.Tolerance, a, b geom.Vector) Position {
	if tol.PointLess(b, a) {
		a, b = b, a
	}
	return Position{Kind: PositionLine, Line: Line{Start: a, End: b}}
}

// IsPoint reports whether the position is a single point.
func (p Position) IsPoint() bool { return p.Kind == PositionPoint }

// Anchor returns the point itself, or the midpoint of a line.
func (p Position) Anchor() geom.Vector {
	if p.Kind == PositionLine {
		return p.Line.Start.Lerp(p.Line.End, 0.5)
	}
	return p.Point
}

// Compare orders positions: points before lines, points by sweep order,
// lines by start and then end. It returns 0 for tolerance-equal positions.
func (p Position) Compare(tol geom.Tolerance, o Position) int {
	if p.Kind != o.Kind {
		if p.Kind == PositionPoint {
			return -1
		}
		return 1
	}
	if p.Kind == PositionPoint {
		return comparePoints(tol, p.Point, o.Point)
	}
	if c := comparePoints(tol, p.Line.Start, o.Line.Start); c != 0 {
		return c
	}
	return comparePoints(tol, p.Line.End, o.Line.End)
}

// Equal reports whether both positions are of the same kind and
// tolerance-equal.
func (p Position) Equal(tol geom.Tolerance, o Position) bool {
	return p.Compare(tol, o) == 0
}

func comparePoints(tol geom.Tolerance, a, b geom.Vector) int {
	switch {
	case tol.PointEq(a, b):
		return 0
	case tol.PointLess(a, b):
		return -1
	}
	return 1
}

func (p Position) String() string {
	if p.Kind == PositionLine {
		return fmt.Sprintf("line %v-%v", p.Line.Start, p.Line.End)
	}
	return fmt.Sprintf("point %v", p.Point)
}
