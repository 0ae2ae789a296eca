// Package crossings detects and measures edge crossings in straight-line
// drawings of graphs.
//
// # Overview
//
// Two edges cross when their segments share a point that is not a common
// endpoint node. A crossing is reported once per location together with
// every edge through it: a [Crossing] at a point collects all edges that meet
// there, and a crossing along a [Line] collects collinear edges that overlap
// in a segment of positive length.
//
// Detection runs either as a Bentley-Ottmann plane sweep ([AlgorithmSweep],
// O((n+k) log n)) or as an all-pairs check ([AlgorithmQuadratic], O(n²)).
// Both produce the same list for drawings whose crossings are further apart
// than the tolerance. The sweep handles the degenerate inputs a drawing can
// contain: horizontal and vertical edges, several edges through one point,
// overlapping collinear edges, zero-length edges, and self-loops.
//
// # Node Crossings
//
// By default a node lying on an edge is not a crossing, and edges that merely
// end at a crossing point are dropped from it. With
// [Options.IncludeNodeCrossings] such contacts are reported. With
// [Options.IncludeSingletons] isolated nodes touching an edge or another
// isolated node are reported too, in [Crossing.Singletons].
//
// # Tolerance
//
// Every comparison goes through a [geom.Tolerance] built from
// [Options.Tolerance]. Choose it larger than the numeric noise of the
// coordinates and smaller than the smallest distance between two distinct
// crossings; when that is impossible use the quadratic algorithm.
//
// # Metrics
//
// [Count], [Density], [Angles], [AngularResolution] and [MaxCrossings] derive
// readability measures from a crossing list; [Planarize] replaces crossings
// with new nodes.
package crossings
