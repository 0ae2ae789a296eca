package crossings

import (
	"maps"
	"slices"

	"github.com/matzehuels/gdcross/pkg/core/avl"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	"github.com/matzehuels/gdcross/pkg/geom"
)

// Crossing is one crossing location and everything that meets there.
//
// Edges keep the orientation they have in the drawing and are sorted by
// [drawing.Edge.Key]. Singletons lists isolated node IDs, sorted.
type Crossing struct {
	Position   Position
	Edges      []drawing.Edge
	Singletons []string
}

// Len returns the number of participants (edges and singletons).
func (c Crossing) Len() int { return len(c.Edges) + len(c.Singletons) }

// HasEdge reports whether e takes part in the crossing, in either orientation.
func (c Crossing) HasEdge(e drawing.Edge) bool {
	k := e.Key()
	for _, x := range c.Edges {
		if x.Key() == k {
			return true
		}
	}
	return false
}

// =============================================================================
// Accumulation
// =============================================================================

// record is a crossing under construction.
type record struct {
	pos   Position
	edges map[drawing.Edge]drawing.Edge // Key() -> edge as drawn
	sing  map[string]struct{}
}

func newRecord(pos Position, edges ...drawing.Edge) *record {
	r := &record{
		pos:   pos,
		edges: make(map[drawing.Edge]drawing.Edge, len(edges)),
		sing:  make(map[string]struct{}),
	}
	r.add(edges...)
	return r
}

func (r *record) add(edges ...drawing.Edge) {
	for _, e := range edges {
		r.edges[e.Key()] = e
	}
}

func (r *record) merge(o *record) {
	maps.Copy(r.edges, o.edges)
	maps.Copy(r.sing, o.sing)
}

func (r *record) size() int { return len(r.edges) + len(r.sing) }

func (r *record) sortedEdges() []drawing.Edge {
	keys := slices.SortedFunc(maps.Keys(r.edges), drawing.Edge.Compare)
	out := make([]drawing.Edge, len(keys))
	for i, k := range keys {
		out[i] = r.edges[k]
	}
	return out
}

func (r *record) crossing() Crossing {
	c := Crossing{Position: r.pos, Edges: r.sortedEdges()}
	if len(r.sing) > 0 {
		c.Singletons = slices.Sorted(maps.Keys(r.sing))
	}
	return c
}

// recordOrder keys point records by their location.
type recordOrder struct{ tol geom.Tolerance }

func (o recordOrder) Less(a, b *record, _ float64) bool {
	return o.tol.PointLess(a.pos.Point, b.pos.Point)
}
func (o recordOrder) Equal(a, b *record) bool { return o.tol.PointEq(a.pos.Point, b.pos.Point) }
func (recordOrder) Key(*record, float64) float64 { return 0 }

// collector merges crossings reported at tolerance-equal positions.
type collector struct {
	tol    geom.Tolerance
	points *avl.Tree[*record]
	lines  []*record
}

func newCollector(tol geom.Tolerance) *collector {
	return &collector{tol: tol, points: avl.New[*record](recordOrder{tol}, tol)}
}

func (c *collector) addPoint(p geom.Vector, edges ...drawing.Edge) *record {
	probe := newRecord(PointAt(p), edges...)
	if r, ok := c.points.Find(probe, 0); ok {
		r.merge(probe)
		return r
	}
	c.points.Insert(probe, 0)
	return probe
}

func (c *collector) findPoint(p geom.Vector) (*record, bool) {
	return c.points.Find(&record{pos: PointAt(p)}, 0)
}

func (c *collector) addLine(pos Position, edges ...drawing.Edge) {
	c.lines = append(c.lines, newRecord(pos, edges...))
}

// finish consolidates lines, attaches singletons, prunes false positives
// and returns the crossings in ascending position order.
func (c *collector) finish(s *scene, opts Options) []Crossing {
	slices.SortStableFunc(c.lines, func(a, b *record) int { return a.pos.Compare(c.tol, b.pos) })
	var lines []*record
	for _, r := range c.lines {
		if n := len(lines); n > 0 && lines[n-1].pos.Equal(c.tol, r.pos) {
			lines[n-1].merge(r)
			continue
		}
		lines = append(lines, r)
	}

	if opts.IncludeSingletons {
		attachSingletons(s, c)
	}

	var out []Crossing
	for r := range c.points.All() {
		prune(s, r, opts.IncludeNodeCrossings)
		if r.size() > 0 {
			out = append(out, r.crossing())
		}
	}
	for _, r := range lines {
		prune(s, r, opts.IncludeNodeCrossings)
		if r.size() > 0 {
			out = append(out, r.crossing())
		}
	}
	return out
}

// =============================================================================
// Pruning
// =============================================================================

// prune removes participants that do not actually cross.
func prune(s *scene, r *record, nodeCrossings bool) {
	if r.pos.Kind == PositionLine {
		clear(r.sing)
		if len(r.edges) == 1 {
			clear(r.edges)
		}
		return
	}

	p := r.pos.Point
	if !nodeCrossings {
		for k, e := range r.edges {
			if s.tol.PointEq(s.pos(e.U), p) || s.tol.PointEq(s.pos(e.V), p) {
				delete(r.edges, k)
			}
		}
	}

	if len(r.sing) == 0 && shareCommonNode(r.edges) && !hasZeroLength(s, r.edges) {
		clear(r.edges)
		return
	}

	if r.size() <= 1 {
		clear(r.edges)
		clear(r.sing)
		return
	}

	// Edges left over may only overlap each other; lines are reported separately.
	if len(r.edges) > 1 {
		edges := r.sortedEdges()
		first := s.info(edges[0])
		for _, e := range edges[1:] {
			if pos, ok := checkLines(s.tol, first, s.info(e)); !ok || pos.Kind != PositionLine {
				return
			}
		}
		clear(r.edges)
	}
}

// shareCommonNode reports whether at least two edges are given and all of
// them are incident to one node.
func shareCommonNode(edges map[drawing.Edge]drawing.Edge) bool {
	if len(edges) <= 1 {
		return false
	}
	var common []string
	first := true
	for _, e := range edges {
		if first {
			common = []string{e.U, e.V}
			first = false
			continue
		}
		common = slices.DeleteFunc(common, func(id string) bool { return !e.Has(id) })
		if len(common) == 0 {
			return false
		}
	}
	return true
}

// hasZeroLength reports whether some edge other than a self-loop has both
// endpoints at the same location.
func hasZeroLength(s *scene, edges map[drawing.Edge]drawing.Edge) bool {
	for _, e := range edges {
		if !e.IsSelfLoop() && s.tol.PointEq(s.pos(e.U), s.pos(e.V)) {
			return true
		}
	}
	return false
}
