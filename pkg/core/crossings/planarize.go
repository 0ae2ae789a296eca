package crossings

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/gdcross/pkg/core/avl"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	"github.com/matzehuels/gdcross/pkg/geom"
)

// PlanarizeResult describes what [Planarize] changed.
type PlanarizeResult struct {
	// Crossings are the crossings that were replaced.
	Crossings []Crossing
	// AddedNodes are the IDs of the new crossing nodes, in creation order.
	AddedNodes []string
	// RemovedNodes are original nodes merged into a crossing node because
	// they lay at its location.
	RemovedNodes []string
	// ReplacedEdges is the number of original edges split into chains.
	ReplacedEdges int
}

// site is one distinct crossing location.
type site struct {
	pos geom.Vector
	id  string
}

type siteOrder struct{ tol geom.Tolerance }

func (o siteOrder) Less(a, b *site, _ float64) bool { return o.tol.PointLess(a.pos, b.pos) }
func (o siteOrder) Equal(a, b *site) bool { return o.tol.PointEq(a.pos, b.pos) }
func (siteOrder) Key(*site, float64) float64 { return 0 }

// Planarize replaces every crossing of d with a node, mutating d in place.
//
// Each distinct crossing location, and both ends of every overlap, becomes a
// node of kind [drawing.KindCrossing] named "crossing<i>". Every crossed edge
// is replaced by a chain through the crossing nodes on it, ordered by
// distance from its first endpoint. An original node lying at a crossing
// location is merged into the crossing node when one of its edges takes part
// in the crossing there. Without crossings d is left untouched.
//
// Crossings are always detected with [AlgorithmQuadratic]; opts.Algorithm is
// ignored.
func Planarize(ctx context.Context, d *drawing.Drawing, opts Options) (PlanarizeResult, error) {
	opts.Algorithm = AlgorithmQuadratic
	list, err := Detect(ctx, d, opts)
	if err != nil {
		return PlanarizeResult{}, err
	}
	res := PlanarizeResult{Crossings: list}
	if len(list) == 0 {
		return res, nil
	}
	tol := opts.Tol()

	sites := avl.New[*site](siteOrder{tol}, tol)
	next := 0
	siteAt := func(p geom.Vector) (*site, error) {
		probe := &site{pos: p}
		if s, ok := sites.Find(probe, 0); ok {
			return s, nil
		}
		for {
			probe.id = "crossing" + strconv.Itoa(next)
			next++
			if _, taken := d.Node(probe.id); !taken {
				break
			}
		}
		err := d.AddNode(drawing.Node{ID: probe.id, X: p.X, Y: p.Y, Kind: drawing.KindCrossing})
		if err != nil {
			return nil, fmt.Errorf("add crossing node: %w", err)
		}
		sites.Insert(probe, 0)
		res.AddedNodes = append(res.AddedNodes, probe.id)
		return probe, nil
	}

	// Sites on each crossed edge, keyed by Edge.Key().
	onEdge := make(map[drawing.Edge][]*site)
	var crossed []drawing.Edge
	for _, c := range list {
		var at []*site
		switch c.Position.Kind {
		case PositionPoint:
			s, err := siteAt(c.Position.Point)
			if err != nil {
				return res, err
			}
			at = append(at, s)
		case PositionLine:
			for _, p := range [...]geom.Vector{c.Position.Line.Start, c.Position.Line.End} {
				s, err := siteAt(p)
				if err != nil {
					return res, err
				}
				at = append(at, s)
			}
		}
		for _, e := range c.Edges {
			k := e.Key()
			if _, ok := onEdge[k]; !ok {
				crossed = append(crossed, e)
			}
			onEdge[k] = append(onEdge[k], at...)
		}
	}

	// An original endpoint is merged into the site at its location when its
	// edge crosses there.
	alias := make(map[string]string)
	for _, e := range crossed {
		for _, id := range [...]string{e.U, e.V} {
			if _, done := alias[id]; done {
				continue
			}
			p, _ := d.Position(id)
			if s, ok := sites.Find(&site{pos: p}, 0); ok && slices.Contains(onEdge[e.Key()], s) {
				alias[id] = s.id
			}
		}
	}
	resolve := func(id string) string {
		if a, ok := alias[id]; ok {
			return a
		}
		return id
	}

	// Chains are computed on the original geometry before anything moves.
	chains := make([][]string, len(crossed))
	for i, e := range crossed {
		from, _ := d.Position(e.U)
		var at []*site
		for _, s := range onEdge[e.Key()] {
			if !slices.Contains(at, s) {
				at = append(at, s)
			}
		}
		slices.SortStableFunc(at, func(a, b *site) int {
			return cmp.Compare(from.Dist(a.pos), from.Dist(b.pos))
		})
		chain := []string{resolve(e.U)}
		for _, s := range at {
			chain = append(chain, s.id)
		}
		chain = append(chain, resolve(e.V))
		chains[i] = slices.Compact(chain)
	}

	for _, e := range crossed {
		d.RemoveEdge(e.U, e.V)
	}
	res.ReplacedEdges = len(crossed)

	merged := slices.Sorted(maps.Keys(alias))
	for _, id := range merged {
		for _, nb := range d.Neighbors(id) {
			d.RemoveEdge(id, nb)
			connect(d, resolve(id), resolve(nb))
		}
		d.RemoveNode(id)
		res.RemovedNodes = append(res.RemovedNodes, id)
	}

	for i, e := range crossed {
		if e.IsSelfLoop() {
			id := resolve(e.U)
			connect(d, id, id)
			continue
		}
		chain := chains[i]
		for j := 1; j < len(chain); j++ {
			connect(d, chain[j-1], chain[j])
		}
	}

	opts.debug("planarized", "crossings", len(list), "added", len(res.AddedNodes),
		"removed", len(res.RemovedNodes), "replaced", res.ReplacedEdges)
	return res, nil
}

// connect adds the edge u-v unless it already exists.
func connect(d *drawing.Drawing, u, v string) {
	if !d.HasEdge(u, v) {
		_ = d.AddEdge(u, v)
	}
}
