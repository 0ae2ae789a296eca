package geom

import "math"

// Segment is a closed line segment.
type Segment struct {
	Start Vector `json:"start"`
	End   Vector `json:"end"`
}

// Seg is shorthand for Segment{a, b}.
func Seg(a, b Vector) Segment { return Segment{Start: a, End: b} }

// Len returns the segment length.
func (s Segment) Len() float64 { return s.Start.Dist(s.End) }

// Dir returns End - Start.
func (s Segment) Dir() Vector { return s.End.Sub(s.Start) }

// Midpoint returns the point halfway between Start and End.
func (s Segment) Midpoint() Vector { return s.Start.Lerp(s.End, 0.5) }

// DistanceTo returns the distance from p to the closest point of s.
// The projection of p onto the supporting line is clamped to the endpoints.
func (s Segment) DistanceTo(p Vector) float64 {
	d := s.Dir()
	l2 := d.Dot(d)
	if l2 == 0 {
		return p.Dist(s.Start)
	}
	t := p.Sub(s.Start).Dot(d) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(s.Start.Add(d.Scale(t)))
}

// Contains reports whether p lies on s within tolerance.
func (s Segment) Contains(tol Tolerance, p Vector) bool {
	return tol.Zero(s.DistanceTo(p))
}

// IsPoint reports whether s has (tolerant) zero length.
func (s Segment) IsPoint(tol Tolerance) bool {
	return tol.PointEq(s.Start, s.End)
}

// IntersectionKind classifies the result of [Intersect].
type IntersectionKind int

const (
	// IntersectNone means the segments are disjoint.
	IntersectNone IntersectionKind = iota
	// IntersectPoint means the segments meet in exactly one point.
	IntersectPoint
	// IntersectOverlap means the segments are collinear and share a sub-segment
	// of non-zero length.
	IntersectOverlap
)

// Intersection is the result of [Intersect].
type Intersection struct {
	Kind    IntersectionKind
	Point   Vector  // set for IntersectPoint
	Overlap Segment // set for IntersectOverlap
}

// Intersect computes how a and b meet.
//
// Two segments are parallel when the sine of the angle between them is within
// tolerance; parallel segments intersect only if they are also collinear, in
// which case the shared part of their projections is returned as a point or an
// overlap depending on its length. Non-parallel segments intersect when both
// line parameters fall into [0, 1].
func Intersect(tol Tolerance, a, b Segment) Intersection {
	aPoint, bPoint := a.IsPoint(tol), b.IsPoint(tol)
	switch {
	case aPoint && bPoint:
		if tol.PointEq(a.Start, b.Start) {
			return Intersection{Kind: IntersectPoint, Point: a.Start}
		}
		return Intersection{}
	case aPoint:
		if b.Contains(tol, a.Start) {
			return Intersection{Kind: IntersectPoint, Point: a.Start}
		}
		return Intersection{}
	case bPoint:
		if a.Contains(tol, b.Start) {
			return Intersection{Kind: IntersectPoint, Point: b.Start}
		}
		return Intersection{}
	}

	r, s := a.Dir(), b.Dir()
	rl, sl := r.Len(), s.Len()
	denom := r.Cross(s)
	qp := b.Start.Sub(a.Start)

	if math.Abs(denom) <= float64(tol)*rl*sl {
		return collinear(tol, a, b, r, rl)
	}

	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Intersection{}
	}
	return Intersection{Kind: IntersectPoint, Point: snap(tol, a.Start.Add(r.Scale(t)), a, b)}
}

// collinear handles two parallel segments. r is the direction of a and rl its length.
func collinear(tol Tolerance, a, b Segment, r Vector, rl float64) Intersection {
	if !tol.Zero(r.Cross(b.Start.Sub(a.Start))/rl) || !tol.Zero(r.Cross(b.End.Sub(a.Start))/rl) {
		return Intersection{}
	}
	rr := r.Dot(r)
	t0 := b.Start.Sub(a.Start).Dot(r) / rr
	t1 := b.End.Sub(a.Start).Dot(r) / rr
	lo := math.Max(0, math.Min(t0, t1))
	hi := math.Min(1, math.Max(t0, t1))

	length := (hi - lo) * rl
	switch {
	case length < 0 && !tol.Zero(length):
		return Intersection{}
	case tol.Zero(length):
		// Touching end to end. Report the point on a that is closest to b.
		t := lo
		if hi < lo {
			t = (lo + hi) / 2
		}
		return Intersection{Kind: IntersectPoint, Point: snap(tol, a.Start.Add(r.Scale(t)), a, b)}
	}
	return Intersection{
		Kind:    IntersectOverlap,
		Overlap: Seg(snap(tol, a.Start.Add(r.Scale(lo)), a, b), snap(tol, a.Start.Add(r.Scale(hi)), a, b)),
	}
}

// snap replaces p by an endpoint of a or b when it is tolerant-equal to one,
// so overlaps report the input coordinates rather than recomputed ones.
func snap(tol Tolerance, p Vector, a, b Segment) Vector {
	for _, q := range [...]Vector{a.Start, a.End, b.Start, b.End} {
		if tol.PointEq(p, q) {
			return q
		}
	}
	return p
}
