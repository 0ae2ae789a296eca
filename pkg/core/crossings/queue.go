package crossings

import (
	"github.com/matzehuels/gdcross/pkg/core/avl"
	"github.com/matzehuels/gdcross/pkg/geom"
)

// edgeSet is an insertion-ordered set of edges.
type edgeSet struct {
	list []*edgeInfo
	seen map[*edgeInfo]struct{}
}

func (s *edgeSet) add(e *edgeInfo) {
	if s.seen == nil {
		s.seen = make(map[*edgeInfo]struct{})
	}
	if _, ok := s.seen[e]; ok {
		return
	}
	s.seen[e] = struct{}{}
	s.list = append(s.list, e)
}

func (s *edgeSet) len() int { return len(s.list) }

// union returns the edges of all sets, each once, in order of appearance.
func union(sets ...*edgeSet) []*edgeInfo {
	var u edgeSet
	for _, s := range sets {
		for _, e := range s.list {
			u.add(e)
		}
	}
	return u.list
}

// eventPoint is a sweep stop. Edges are filed by their relation to the point.
type eventPoint struct {
	pos        geom.Vector
	starts     edgeSet // non-horizontal edges whose start is here
	ends       edgeSet // non-horizontal edges whose end is here
	interior   edgeSet // edges crossing here away from their endpoints
	horizontal edgeSet // horizontal edges starting or ending here
	isCrossing bool
}

type pointOrder struct{ tol geom.Tolerance }

func (o pointOrder) Less(a, b *eventPoint, _ float64) bool { return o.tol.PointLess(a.pos, b.pos) }
func (o pointOrder) Equal(a, b *eventPoint) bool { return o.tol.PointEq(a.pos, b.pos) }
func (pointOrder) Key(*eventPoint, float64) float64 { return 0 }

// eventQueue hands out event points in sweep order, merging points that are
// tolerance-equal.
type eventQueue struct {
	tol  geom.Tolerance
	tree *avl.Tree[*eventPoint]
}

func newEventQueue(tol geom.Tolerance) *eventQueue {
	return &eventQueue{tol: tol, tree: avl.New[*eventPoint](pointOrder{tol}, tol)}
}

func (q *eventQueue) at(p geom.Vector) *eventPoint {
	probe := &eventPoint{pos: p}
	if ev, ok := q.tree.Find(probe, 0); ok {
		return ev
	}
	q.tree.Insert(probe, 0)
	return probe
}

// addEdge files e at both of its endpoints.
func (q *eventQueue) addEdge(e *edgeInfo) {
	if e.isHorizontal(q.tol) {
		q.at(e.start).horizontal.add(e)
		q.at(e.end).horizontal.add(e)
		return
	}
	q.at(e.start).starts.add(e)
	q.at(e.end).ends.add(e)
}

// addCrossing files every edge for which p is not an endpoint as crossing
// at p.
func (q *eventQueue) addCrossing(p geom.Vector, edges ...*edgeInfo) {
	var ev *eventPoint
	for _, e := range edges {
		if q.tol.PointEq(e.start, p) || q.tol.PointEq(e.end, p) {
			continue
		}
		if ev == nil {
			ev = q.at(p)
		}
		ev.interior.add(e)
		ev.isCrossing = true
	}
}

func (q *eventQueue) pop() (*eventPoint, bool) { return q.tree.Pop() }
