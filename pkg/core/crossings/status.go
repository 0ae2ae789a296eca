package crossings

import (
	"github.com/matzehuels/gdcross/pkg/core/avl"
	"github.com/matzehuels/gdcross/pkg/geom"
)

// sweepStatus holds the edges intersecting the sweep line, left to right.
type sweepStatus struct {
	tree *avl.Tree[*edgeInfo]
}

func newSweepStatus(tol geom.Tolerance) *sweepStatus {
	return &sweepStatus{tree: avl.New[*edgeInfo](edgeOrder{tol}, tol)}
}

func (s *sweepStatus) add(y float64, e *edgeInfo) { s.tree.Insert(e, y) }

// remove deletes e, which must pass through p. Edges meeting at p are found
// by their x at p alone; a full scan is the fallback when numeric drift moves
// e out of range.
func (s *sweepStatus) remove(p geom.Vector, e *edgeInfo) {
	if !s.tree.RemoveIn(e, p.X, p.X, p.Y) {
		s.tree.ForceRemove(e)
	}
}

// left returns the nearest edge strictly left of p.
func (s *sweepStatus) left(p geom.Vector) *edgeInfo {
	e, _ := s.tree.Left(p.X, p.Y)
	return e
}

// right returns the nearest edge strictly right of p.
func (s *sweepStatus) right(p geom.Vector) *edgeInfo {
	e, _ := s.tree.Right(p.X, p.Y)
	return e
}

// rangeAt returns the edges whose x at height y lies in [lo, hi].
func (s *sweepStatus) rangeAt(y, lo, hi float64) []*edgeInfo {
	return s.tree.Range(lo, hi, y)
}
