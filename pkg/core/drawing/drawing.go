package drawing

import (
	"errors"
	"math"
	"slices"

	"github.com/matzehuels/gdcross/pkg/geom"
)

var (
	// ErrInvalidNodeID is returned by [Drawing.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Drawing.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Drawing.AddEdge] when an endpoint does not
	// exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrMultiEdge is returned by [Drawing.AddEdge] when the unordered node
	// pair is already connected. Drawings are simple apart from self-loops.
	ErrMultiEdge = errors.New("edge already exists")

	// ErrInvalidPosition is returned by [Drawing.Validate] when a node
	// coordinate is NaN or infinite.
	ErrInvalidPosition = errors.New("node position must be finite")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the drawing.
type Metadata map[string]any

// Kind distinguishes input vertices from vertices added by planarization.
type Kind int

const (
	// KindRegular is a vertex of the input drawing.
	KindRegular Kind = iota
	// KindCrossing is a vertex inserted at a crossing point.
	KindCrossing
)

// String returns "regular" or "crossing".
func (k Kind) String() string {
	if k == KindCrossing {
		return "crossing"
	}
	return "regular"
}

// Node is a positioned vertex.
type Node struct {
	ID   string   // Unique identifier
	X, Y float64  // Position in the plane
	Kind Kind     // Regular or crossing
	Meta Metadata // Arbitrary metadata (never nil after AddNode)
}

// Pos returns the node position as a vector.
func (n Node) Pos() geom.Vector { return geom.V(n.X, n.Y) }

// IsCrossing reports whether the node was inserted by planarization.
func (n Node) IsCrossing() bool { return n.Kind == KindCrossing }

// Edge is an undirected connection between two nodes. U and V keep the
// orientation the edge was added with; [Edge.Key] is orientation-free.
type Edge struct {
	U string
	V string
}

// Key returns the endpoint IDs in lexicographic order.
func (e Edge) Key() Edge {
	if e.V < e.U {
		return Edge{U: e.V, V: e.U}
	}
	return e
}

// IsSelfLoop reports whether both endpoints are the same node.
func (e Edge) IsSelfLoop() bool { return e.U == e.V }

// Has reports whether id is an endpoint of e.
func (e Edge) Has(id string) bool { return e.U == id || e.V == id }

// Compare orders edges by U, then V.
func (e Edge) Compare(o Edge) int {
	if e.U != o.U {
		if e.U < o.U {
			return -1
		}
		return 1
	}
	switch {
	case e.V < o.V:
		return -1
	case e.V > o.V:
		return 1
	}
	return 0
}

// Drawing is an undirected graph with a straight-line embedding.
//
// The zero value is not usable - use New to create a drawing.
type Drawing struct {
	nodes map[string]*Node
	order []string     // node insertion order
	edges map[Edge]int // Edge.Key() -> index into list
	list  []Edge       // edges in insertion order, as added; removed slots hold the zero Edge
	holes int          // removed slots in list
	adj   map[string][]string
	meta  Metadata
}

// New creates an empty drawing with optional drawing-level metadata.
func New(meta Metadata) *Drawing {
	if meta == nil {
		meta = Metadata{}
	}
	return &Drawing{
		nodes: make(map[string]*Node),
		edges: make(map[Edge]int),
		adj:   make(map[string][]string),
		meta:  meta,
	}
}

// Meta returns the drawing-level metadata map.
func (d *Drawing) Meta() Metadata { return d.meta }

// AddNode adds a node. Returns ErrInvalidNodeID for an empty ID and
// ErrDuplicateNodeID when the ID is taken.
func (d *Drawing) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := n
	d.nodes[n.ID] = &node
	d.order = append(d.order, n.ID)
	return nil
}

// AddEdge connects u and v. Returns ErrUnknownNode if either endpoint is
// missing and ErrMultiEdge if the pair is already connected. u == v adds a
// self-loop.
func (d *Drawing) AddEdge(u, v string) error {
	if _, ok := d.nodes[u]; !ok {
		return ErrUnknownNode
	}
	if _, ok := d.nodes[v]; !ok {
		return ErrUnknownNode
	}
	e := Edge{U: u, V: v}
	if _, exists := d.edges[e.Key()]; exists {
		return ErrMultiEdge
	}
	d.edges[e.Key()] = len(d.list)
	d.list = append(d.list, e)
	d.adj[u] = append(d.adj[u], v)
	if u != v {
		d.adj[v] = append(d.adj[v], u)
	}
	return nil
}

// HasEdge reports whether u and v are connected, in either orientation.
func (d *Drawing) HasEdge(u, v string) bool {
	_, ok := d.edges[Edge{U: u, V: v}.Key()]
	return ok
}

// RemoveEdge removes the edge between u and v if it exists and reports
// whether it did.
func (d *Drawing) RemoveEdge(u, v string) bool {
	key := Edge{U: u, V: v}.Key()
	idx, ok := d.edges[key]
	if !ok {
		return false
	}
	d.list[idx] = Edge{}
	d.holes++
	delete(d.edges, key)
	if d.holes > len(d.list)/2 {
		d.compact()
	}
	d.adj[u] = removeFirst(d.adj[u], v)
	if u != v {
		d.adj[v] = removeFirst(d.adj[v], u)
	}
	return true
}

// RemoveNode removes a node and every edge incident to it. It reports
// whether the node existed.
func (d *Drawing) RemoveNode(id string) bool {
	if _, ok := d.nodes[id]; !ok {
		return false
	}
	for _, nb := range slices.Clone(d.adj[id]) {
		d.RemoveEdge(id, nb)
	}
	delete(d.nodes, id)
	delete(d.adj, id)
	d.order = removeFirst(d.order, id)
	return true
}

// compact drops removed slots from list and re-indexes the edges behind them.
func (d *Drawing) compact() {
	live := d.list[:0]
	for _, e := range d.list {
		if e == (Edge{}) {
			continue
		}
		d.edges[e.Key()] = len(live)
		live = append(live, e)
	}
	clear(d.list[len(live):])
	d.list = live
	d.holes = 0
}

func removeFirst(s []string, v string) []string {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}

// Node returns the node with the given ID. The pointer refers to the stored
// node, so position updates affect the drawing.
func (d *Drawing) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Position returns the position of node id; ok is false for unknown IDs.
func (d *Drawing) Position(id string) (geom.Vector, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return geom.Vector{}, false
	}
	return n.Pos(), true
}

// Nodes returns all nodes in insertion order.
func (d *Drawing) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.order))
	for _, id := range d.order {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *Drawing) Edges() []Edge {
	out := make([]Edge, 0, len(d.edges))
	for _, e := range d.list {
		if e != (Edge{}) {
			out = append(out, e)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (d *Drawing) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges, self-loops included.
func (d *Drawing) EdgeCount() int { return len(d.edges) }

// Degree returns the number of edge endpoints at id. A self-loop counts twice.
func (d *Drawing) Degree(id string) int {
	deg := len(d.adj[id])
	if slices.Contains(d.adj[id], id) {
		deg++
	}
	return deg
}

// Neighbors returns the sorted IDs adjacent to id. A node with a self-loop is
// its own neighbor.
func (d *Drawing) Neighbors(id string) []string {
	nb := slices.Clone(d.adj[id])
	slices.Sort(nb)
	return nb
}

// Isolated returns the nodes without any incident edge, in insertion order.
func (d *Drawing) Isolated() []*Node {
	var out []*Node
	for _, id := range d.order {
		if len(d.adj[id]) == 0 {
			out = append(out, d.nodes[id])
		}
	}
	return out
}

// Clone returns a deep copy of the drawing. Metadata maps are copied one
// level deep.
func (d *Drawing) Clone() *Drawing {
	c := New(cloneMeta(d.meta))
	for _, n := range d.Nodes() {
		cp := *n
		cp.Meta = cloneMeta(n.Meta)
		_ = c.AddNode(cp)
	}
	for _, e := range d.Edges() {
		_ = c.AddEdge(e.U, e.V)
	}
	return c
}

func cloneMeta(m Metadata) Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Bounds returns the bounding box of all node positions. An empty drawing
// returns two zero vectors.
func (d *Drawing) Bounds() (lo, hi geom.Vector) {
	if len(d.order) == 0 {
		return geom.Vector{}, geom.Vector{}
	}
	lo = geom.V(math.Inf(1), math.Inf(1))
	hi = geom.V(math.Inf(-1), math.Inf(-1))
	for _, n := range d.nodes {
		lo = geom.V(min(lo.X, n.X), min(lo.Y, n.Y))
		hi = geom.V(max(hi.X, n.X), max(hi.Y, n.Y))
	}
	return lo, hi
}

// Validate checks that every node position is finite and that every edge
// references existing nodes.
func (d *Drawing) Validate() error {
	for _, id := range d.order {
		if !d.nodes[id].Pos().Finite() {
			return ErrInvalidPosition
		}
	}
	for _, e := range d.Edges() {
		if _, ok := d.nodes[e.U]; !ok {
			return ErrUnknownNode
		}
		if _, ok := d.nodes[e.V]; !ok {
			return ErrUnknownNode
		}
	}
	return nil
}

// Segment returns the straight segment drawn for e.
func (d *Drawing) Segment(e Edge) (geom.Segment, bool) {
	a, okA := d.Position(e.U)
	b, okB := d.Position(e.V)
	if !okA || !okB {
		return geom.Segment{}, false
	}
	return geom.Seg(a, b), true
}
