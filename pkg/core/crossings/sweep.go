package crossings

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/gdcross/pkg/core/drawing"
	"github.com/matzehuels/gdcross/pkg/geom"
)

// Detect returns every crossing of d, sorted by [Position.Compare]: points
// first in sweep order, then lines.
//
// The algorithm is chosen by [Options.Algorithm]. Detection stops with the
// context's error when ctx is cancelled.
func Detect(ctx context.Context, d *drawing.Drawing, opts Options) ([]Crossing, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		out []Crossing
		err error
	)
	switch opts.Algorithm {
	case AlgorithmQuadratic:
		out, err = quadratic(ctx, d, opts)
	default:
		out, err = sweep(ctx, d, opts)
	}
	if err != nil {
		return nil, err
	}
	opts.debug("crossings detected",
		"algorithm", opts.algorithm(),
		"nodes", d.NodeCount(),
		"edges", d.EdgeCount(),
		"crossings", len(out),
		"elapsed", time.Since(start))
	return out, nil
}

// Sweep runs the plane sweep regardless of [Options.Algorithm].
func Sweep(d *drawing.Drawing, opts Options) ([]Crossing, error) {
	opts.Algorithm = AlgorithmSweep
	return Detect(context.Background(), d, opts)
}

// Quadratic checks every pair of edges regardless of [Options.Algorithm].
func Quadratic(d *drawing.Drawing, opts Options) ([]Crossing, error) {
	opts.Algorithm = AlgorithmQuadratic
	return Detect(context.Background(), d, opts)
}

func (o Options) algorithm() Algorithm {
	if o.Algorithm == "" {
		return AlgorithmSweep
	}
	return o.Algorithm
}

// =============================================================================
// Plane sweep
// =============================================================================

// sweeper moves a horizontal line from the top of the drawing to the bottom.
// Event points are the edge endpoints plus every crossing discovered between
// edges that become neighbours on the line.
type sweeper struct {
	tol    geom.Tolerance
	queue  *eventQueue
	status *sweepStatus
	out    *collector

	current geom.Vector
	active  []*edgeInfo // horizontal edges open on the current line

	events, crossingEvents int
}

func sweep(ctx context.Context, d *drawing.Drawing, opts Options) ([]Crossing, error) {
	tol := opts.Tol()
	s := newScene(d, tol)
	w := &sweeper{
		tol:    tol,
		queue:  newEventQueue(tol),
		status: newSweepStatus(tol),
		out:    newCollector(tol),
	}
	for _, e := range s.infos {
		w.queue.addEdge(e)
	}
	if err := w.run(ctx); err != nil {
		return nil, err
	}
	opts.debug("sweep finished",
		"events", w.events,
		"crossing_events", w.crossingEvents,
		"points", w.out.points.Len(),
		"lines", len(w.out.lines))
	return w.out.finish(s, opts), nil
}

func (w *sweeper) run(ctx context.Context) error {
	first := true
	for {
		ev, ok := w.queue.pop()
		if !ok {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sweep at %v: %w", ev.pos, err)
		}
		w.events++
		if ev.isCrossing {
			w.crossingEvents++
		}

		if !first && !w.tol.Eq(ev.pos.Y, w.current.Y) {
			w.active = w.active[:0]
		}
		first = false
		w.current = ev.pos
		w.step(ev)
	}
}

// step handles one event point.
func (w *sweeper) step(ev *eventPoint) {
	p := ev.pos

	for _, e := range ev.ends.list {
		if !e.isZeroLength(w.tol) {
			w.status.remove(p, e)
		}
	}

	// Edges passing through p swap their order below it. All of them leave
	// the status before any is put back, so insertion never compares against
	// an edge still in the order above p.
	through := w.status.rangeAt(p.Y, p.X, p.X)
	var continuing edgeSet
	for _, e := range union(&ev.interior, setOf(through)) {
		if e.isHorizontal(w.tol) {
			continue
		}
		w.status.remove(p, e)
		continuing.add(e)
	}
	for _, e := range continuing.list {
		w.status.add(p.Y, e)
	}
	var starts []*edgeInfo
	for _, e := range ev.starts.list {
		if !e.isZeroLength(w.tol) {
			starts = append(starts, e)
			continuing.add(e)
		}
	}

	left, right := w.status.left(p), w.status.right(p)
	if continuing.len() == 0 {
		w.appendCrossing(left, right)
	} else {
		leftmost, rightmost := w.extremes(continuing.list)
		w.appendCrossing(left, leftmost)
		w.appendCrossing(rightmost, right)
	}

	w.recordAt(union(&ev.starts, &ev.ends, &ev.horizontal, &ev.interior, setOf(through), w.covering()))

	if len(starts) > 0 {
		w.checkOverlaps(starts, union(&ev.interior, setOf(through)))
	}

	for _, h := range ev.horizontal.list {
		for _, e := range w.status.rangeAt(p.Y, h.start.X, h.end.X) {
			w.appendCrossing(h, e)
		}
		if w.tol.PointEq(h.start, p) {
			for _, o := range w.active {
				w.addOverlap(o, h)
			}
			w.active = append(w.active, h)
		} else {
			w.deactivate(h)
		}
	}

	for _, e := range starts {
		w.status.add(p.Y, e)
	}
}

// covering returns the open horizontal edges whose span contains the
// current point.
func (w *sweeper) covering() *edgeSet {
	var s edgeSet
	for _, h := range w.active {
		if !w.tol.Greater(h.start.X, w.current.X) && !w.tol.Greater(w.current.X, h.end.X) {
			s.add(h)
		}
	}
	return &s
}

// recordAt tests every pair of edges touching the current point and records
// those meeting there.
func (w *sweeper) recordAt(edges []*edgeInfo) {
	for i, a := range edges {
		for _, b := range edges[i+1:] {
			pos, ok := checkLines(w.tol, a, b)
			if ok && pos.Kind == PositionPoint && w.tol.PointEq(pos.Point, w.current) {
				w.out.addPoint(pos.Point, a.edge, b.edge)
			}
		}
	}
}

// extremes returns the leftmost and rightmost of the edges continuing below
// the current point.
func (w *sweeper) extremes(edges []*edgeInfo) (leftmost, rightmost *edgeInfo) {
	order := edgeOrder{w.tol}
	y := w.current.Y
	for _, e := range edges {
		if leftmost == nil || order.Less(e, leftmost, y) {
			leftmost = e
		}
		if rightmost == nil || order.Less(rightmost, e, y) {
			rightmost = e
		}
	}
	return leftmost, rightmost
}

// checkOverlaps reports collinear overlaps of the edges starting at the
// current point with each other and with the edges passing through it. An
// overlap always begins at the start of one of its edges, so every overlap
// is seen once the sweep reaches that start.
func (w *sweeper) checkOverlaps(starts, through []*edgeInfo) {
	for i, a := range starts {
		for _, b := range starts[i+1:] {
			w.addOverlap(a, b)
		}
		for _, b := range through {
			w.addOverlap(a, b)
		}
	}
}

func (w *sweeper) addOverlap(a, b *edgeInfo) {
	if pos, ok := checkLines(w.tol, a, b); ok && pos.Kind == PositionLine {
		w.out.addLine(pos, a.edge, b.edge)
	}
}

// appendCrossing schedules the crossing of a and b when it lies ahead of
// the sweep. Crossings at the current point are picked up by recordAt and
// overlaps by checkOverlaps. A crossing behind the sweep, as between a
// horizontal edge and an edge that started on it, is recorded directly.
func (w *sweeper) appendCrossing(a, b *edgeInfo) {
	pos, ok := checkLines(w.tol, a, b)
	if !ok || pos.Kind == PositionLine {
		return
	}
	cr := pos.Point
	switch {
	case w.tol.PointLess(w.current, cr):
		w.queue.addCrossing(cr, a, b)
	case w.tol.PointEq(w.current, cr):
		// Seen by recordAt.
	default:
		w.out.addPoint(cr, a.edge, b.edge)
	}
}

func (w *sweeper) deactivate(h *edgeInfo) {
	for i, o := range w.active {
		if o == h {
			w.active = append(w.active[:i], w.active[i+1:]...)
			return
		}
	}
}

func setOf(es []*edgeInfo) *edgeSet {
	var s edgeSet
	for _, e := range es {
		s.add(e)
	}
	return &s
}
