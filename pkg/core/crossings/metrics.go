package crossings

import (
	"slices"

	"github.com/matzehuels/gdcross/pkg/core/drawing"
)

// Count returns the number of crossings, counting a crossing of k edges
// once per pair of edges. Overlaps count like point crossings.
func Count(list []Crossing) int {
	total := 0
	for _, c := range list {
		total += choose2(len(c.Edges))
	}
	return total
}

// Density weighs the number of crossings against [MaxCrossings]. The result
// lies in [0, 1]; 1 means no crossings.
func Density(d *drawing.Drawing, list []Crossing, opts Options) float64 {
	cmax := max(MaxCrossings(d, opts.TighterBound), 1)
	est := 1 - float64(Count(list))/float64(cmax)
	return min(max(est, 0), 1)
}

// MaxCrossings estimates the largest number of crossings any drawing of d
// can have: every pair of edges except pairs sharing a node. With tighter
// set, pairs that triangles and 4-cycles keep apart are subtracted too; the
// tighter estimate may undercut the true maximum and may be negative.
func MaxCrossings(d *drawing.Drawing, tighter bool) int {
	cdeg := 0
	for _, n := range d.Nodes() {
		cdeg += choose2(d.Degree(n.ID))
	}
	cmax := choose2(d.EdgeCount()) - cdeg
	if tighter {
		cmax -= triangleBound(d) + countFourCycles(d)
	}
	return cmax
}

func choose2(n int) int { return n * (n - 1) / 2 }

// simpleNeighbors returns the neighbors of id without id itself.
func simpleNeighbors(d *drawing.Drawing, id string) []string {
	nb := d.Neighbors(id)
	return slices.DeleteFunc(nb, func(x string) bool { return x == id })
}

// countFourCycles counts cycles of length four. Every cycle is seen from
// both of its diagonals.
func countFourCycles(d *drawing.Drawing) int {
	nodes := d.Nodes()
	neighbors := make(map[string]map[string]struct{}, len(nodes))
	for _, n := range nodes {
		set := make(map[string]struct{})
		for _, x := range simpleNeighbors(d, n.ID) {
			set[x] = struct{}{}
		}
		neighbors[n.ID] = set
	}

	total := 0
	for i, u := range nodes {
		for _, v := range nodes[i+1:] {
			common := 0
			for x := range neighbors[u.ID] {
				if _, ok := neighbors[v.ID][x]; ok {
					common++
				}
			}
			total += choose2(common)
		}
	}
	return total / 2
}

// triangleBound counts the pairs of edges that triangles keep from crossing
// and that the degree term has not already removed.
func triangleBound(d *drawing.Drawing) int {
	triangles := 0
	onTriangle := make(map[string]struct{})
	for _, u := range d.Nodes() {
		nu := simpleNeighbors(d, u.ID)
		for i, v := range nu {
			if v <= u.ID {
				continue
			}
			for _, w := range nu[i+1:] {
				if w <= u.ID || !d.HasEdge(v, w) {
					continue
				}
				triangles++
				onTriangle[u.ID] = struct{}{}
				onTriangle[v] = struct{}{}
				onTriangle[w] = struct{}{}
			}
		}
	}
	if triangles == 0 {
		return 0
	}

	// Degrees within the subgraph induced by the triangle nodes.
	deg := make(map[string]int, len(onTriangle))
	var induced []drawing.Edge
	for _, e := range d.Edges() {
		_, okU := onTriangle[e.U]
		_, okV := onTriangle[e.V]
		if okU && okV {
			induced = append(induced, e)
			deg[e.U]++
			deg[e.V]++
		}
	}
	isolatedTriangleEdges := 0
	for _, e := range induced {
		if deg[e.U] == 2 && deg[e.V] == 2 {
			isolatedTriangleEdges++
		}
	}

	shared := 3*triangles - len(onTriangle)
	return isolatedTriangleEdges + choose2(triangles)*3 - shared
}
