package crossings

import (
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	"github.com/matzehuels/gdcross/pkg/geom"
)

// edgeInfo is an edge with its endpoints in sweep order: start is the
// endpoint the sweep reaches first.
type edgeInfo struct {
	edge       drawing.Edge
	start, end geom.Vector
}

func newEdgeInfo(tol geom.Tolerance, e drawing.Edge, a, b geom.Vector) *edgeInfo {
	if tol.PointLess(b, a) {
		a, b = b, a
	}
	return &edgeInfo{edge: e, start: a, end: b}
}

func (e *edgeInfo) segment() geom.Segment { return geom.Seg(e.start, e.end) }

// isHorizontal reports a horizontal edge of positive length. Zero-length
// edges are not horizontal.
func (e *edgeInfo) isHorizontal(tol geom.Tolerance) bool {
	return tol.Eq(e.start.Y, e.end.Y) && !tol.Eq(e.start.X, e.end.X)
}

func (e *edgeInfo) isZeroLength(tol geom.Tolerance) bool {
	return tol.PointEq(e.start, e.end)
}

// sharesEndpoint reports whether both edges are incident to a common node.
func (e *edgeInfo) sharesEndpoint(o *edgeInfo) bool {
	return e.edge.Has(o.edge.U) || e.edge.Has(o.edge.V)
}

// xAt returns the x coordinate of the edge's supporting line at height y.
// Vertical edges return their x; horizontal edges their leftmost x.
func (e *edgeInfo) xAt(tol geom.Tolerance, y float64) float64 {
	if tol.Eq(e.start.X, e.end.X) {
		return e.start.X
	}
	dy := e.end.Y - e.start.Y
	if tol.Zero(dy) {
		return min(e.start.X, e.end.X)
	}
	return e.start.X + (y-e.start.Y)*(e.end.X-e.start.X)/dy
}

// dir returns the unit vector from start to end.
func (e *edgeInfo) dir() geom.Vector {
	d := e.end.Sub(e.start)
	if l := d.Len(); l > 0 {
		return d.Scale(1 / l)
	}
	return d
}

// edgeOrder orders active edges left to right at a sweep height.
type edgeOrder struct{ tol geom.Tolerance }

// Less compares at y. Edges meeting at y are ordered by direction, as they
// leave the meeting point below the line; collinear edges tie.
func (o edgeOrder) Less(a, b *edgeInfo, y float64) bool {
	xa, xb := a.xAt(o.tol, y), b.xAt(o.tol, y)
	if !o.tol.Eq(xa, xb) {
		return xb > xa
	}
	return o.tol.Greater(a.dir().Cross(b.dir()), 0)
}

func (o edgeOrder) Equal(a, b *edgeInfo) bool {
	return a.edge == b.edge && o.tol.PointEq(a.start, b.start) && o.tol.PointEq(a.end, b.end)
}

func (o edgeOrder) Key(a *edgeInfo, y float64) float64 { return a.xAt(o.tol, y) }

// =============================================================================
// Scene
// =============================================================================

// scene is the read-only view of a drawing shared by both algorithms.
type scene struct {
	d     *drawing.Drawing
	tol   geom.Tolerance
	infos []*edgeInfo // drawing edge order
	byKey map[drawing.Edge]*edgeInfo
}

func newScene(d *drawing.Drawing, tol geom.Tolerance) *scene {
	s := &scene{d: d, tol: tol, byKey: make(map[drawing.Edge]*edgeInfo, d.EdgeCount())}
	for _, e := range d.Edges() {
		info := newEdgeInfo(tol, e, s.pos(e.U), s.pos(e.V))
		s.infos = append(s.infos, info)
		s.byKey[e.Key()] = info
	}
	return s
}

func (s *scene) pos(id string) geom.Vector {
	p, _ := s.d.Position(id)
	return p
}

func (s *scene) info(e drawing.Edge) *edgeInfo { return s.byKey[e.Key()] }

// =============================================================================
// Pairwise test
// =============================================================================

// checkLines returns where a and b cross. Overlaps are reported as lines even
// for adjacent edges; a single shared point between adjacent edges is not a
// crossing. When the segments miss each other numerically, an endpoint within
// tolerance of the other segment still counts.
func checkLines(tol geom.Tolerance, a, b *edgeInfo) (Position, bool) {
	if a == nil || b == nil {
		return Position{}, false
	}
	sa, sb := a.segment(), b.segment()
	switch x := geom.Intersect(tol, sa, sb); x.Kind {
	case geom.IntersectOverlap:
		return LineBetween(tol, x.Overlap.Start, x.Overlap.End), true
	case geom.IntersectPoint:
		if a.sharesEndpoint(b) {
			return Position{}, false
		}
		return PointAt(x.Point), true
	}

	switch {
	case sb.Contains(tol, a.start):
		return PointAt(a.start), true
	case sb.Contains(tol, a.end):
		return PointAt(a.end), true
	case sa.Contains(tol, b.start):
		return PointAt(b.start), true
	case sa.Contains(tol, b.end):
		return PointAt(b.end), true
	}
	return Position{}, false
}
