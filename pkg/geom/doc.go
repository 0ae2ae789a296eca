// Package geom provides the 2D primitives used by the crossing engine.
//
// Every comparison in this package goes through a [Tolerance] value so that
// coordinates closer than the tolerance are treated as identical. There is no
// package-level tolerance: callers carry one through their options and pass it
// to each primitive.
//
// # Point order
//
// Points are totally ordered in sweep direction: a point with a greater Y comes
// first, and points at the same Y (within tolerance) are ordered by ascending X.
// [Tolerance.PointLess] implements that order and [Tolerance.PointEq] the
// matching equality (distance within tolerance).
//
// # Segment intersection
//
// [Intersect] classifies two closed segments as disjoint, meeting in a single
// point, or overlapping along a collinear sub-segment. Zero-length segments are
// handled as points.
package geom
