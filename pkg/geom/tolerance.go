package geom

import "math"

// DefaultTolerance is the absolute epsilon used when no tolerance is configured.
const DefaultTolerance Tolerance = 1e-9

// Tolerance is an absolute epsilon for coordinate comparisons.
type Tolerance float64

// Eq reports whether a and b differ by at most the tolerance.
func (t Tolerance) Eq(a, b float64) bool {
	return math.Abs(a-b) <= float64(t)
}

// Zero reports whether a is within tolerance of zero.
func (t Tolerance) Zero(a float64) bool {
	return t.Eq(a, 0)
}

// Greater reports whether a is greater than b. It is false whenever a and b are
// tolerant-equal.
func (t Tolerance) Greater(a, b float64) bool {
	return a > b && !t.Eq(a, b)
}

// Less reports whether a is less than b and not tolerant-equal to it.
func (t Tolerance) Less(a, b float64) bool {
	return t.Greater(b, a)
}

// PointEq reports whether p and q are at most one tolerance apart.
func (t Tolerance) PointEq(p, q Vector) bool {
	return t.Zero(p.Dist(q))
}

// PointLess reports whether p precedes q in sweep order: greater Y first,
// then smaller X.
func (t Tolerance) PointLess(p, q Vector) bool {
	return t.Greater(p.Y, q.Y) || (t.Eq(p.Y, q.Y) && t.Greater(q.X, p.X))
}

// Valid reports whether the tolerance is usable (finite and non-negative).
func (t Tolerance) Valid() bool {
	f := float64(t)
	return f >= 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}
