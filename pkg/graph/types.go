package graph

import (
	"errors"
	"fmt"
	"maps"

	"github.com/matzehuels/gdcross/pkg/core/drawing"
	gderrors "github.com/matzehuels/gdcross/pkg/errors"
)

// KindCrossing marks nodes inserted by planarization.
const KindCrossing = "crossing"

// =============================================================================
// Drawing - Embedded Graph Serialization
// =============================================================================

// Drawing is the canonical serialization format for embedded graphs.
type Drawing struct {
	Nodes []Node         `json:"nodes" bson:"nodes"`
	Edges []Edge         `json:"edges" bson:"edges"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Node is a positioned vertex.
type Node struct {
	ID   string         `json:"id" bson:"id"`
	X    float64        `json:"x" bson:"x"`
	Y    float64        `json:"y" bson:"y"`
	Kind string         `json:"kind,omitempty" bson:"kind,omitempty"` // "crossing" or empty
	Meta map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// IsCrossing returns true for nodes inserted by planarization.
func (n *Node) IsCrossing() bool { return n.Kind == KindCrossing }

// Edge is an undirected edge. From and To keep the orientation of the input.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// String returns "from-to".
func (e Edge) String() string { return e.From + "-" + e.To }

// =============================================================================
// Drawing ↔ Serialization Conversion
// =============================================================================

// FromDrawing converts a drawing to its serialization format.
// Nodes and edges keep their insertion order.
func FromDrawing(d *drawing.Drawing) Drawing {
	nodes := d.Nodes()
	edges := d.Edges()
	out := Drawing{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
		Meta:  copyMeta(d.Meta()),
	}
	for i, n := range nodes {
		out.Nodes[i] = Node{ID: n.ID, X: n.X, Y: n.Y, Meta: copyMeta(n.Meta)}
		if n.IsCrossing() {
			out.Nodes[i].Kind = KindCrossing
		}
	}
	for i, e := range edges {
		out.Edges[i] = Edge{From: e.U, To: e.V}
	}
	return out
}

// ToDrawing converts the serialization format into a drawing.
//
// Errors carry a code: MULTI_EDGE for a repeated node pair, UNKNOWN_NODE for
// an edge to a missing node and INVALID_INPUT for anything else.
func ToDrawing(g Drawing) (*drawing.Drawing, error) {
	d := drawing.New(copyMeta(g.Meta))
	for _, n := range g.Nodes {
		if err := gderrors.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
		node := drawing.Node{ID: n.ID, X: n.X, Y: n.Y, Meta: copyMeta(n.Meta)}
		if n.IsCrossing() {
			node.Kind = drawing.KindCrossing
		}
		if err := d.AddNode(node); err != nil {
			return nil, gderrors.Wrap(gderrors.ErrCodeInvalidInput, err, "add node %s", n.ID)
		}
	}
	for _, e := range g.Edges {
		if err := d.AddEdge(e.From, e.To); err != nil {
			return nil, gderrors.Wrap(edgeCode(err), err, "add edge %s", e)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, gderrors.Wrap(gderrors.ErrCodeInvalidInput, err, "invalid drawing")
	}
	return d, nil
}

func edgeCode(err error) gderrors.Code {
	switch {
	case errors.Is(err, drawing.ErrMultiEdge):
		return gderrors.ErrCodeMultiEdge
	case errors.Is(err, drawing.ErrUnknownNode):
		return gderrors.ErrCodeUnknownNode
	}
	return gderrors.ErrCodeInvalidInput
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
// Returns nil for an empty map.
func copyMeta(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the serialized drawing without building it.
func (g Drawing) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := seen[n.ID]; dup {
			return gderrors.New(gderrors.ErrCodeInvalidInput, "duplicate node %s", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	for _, e := range g.Edges {
		for _, id := range [...]string{e.From, e.To} {
			if _, ok := seen[id]; !ok {
				return gderrors.New(gderrors.ErrCodeUnknownNode, "edge %s references unknown node %s", e, id)
			}
		}
	}
	return nil
}

// Summary returns a one-line description such as "5 nodes, 4 edges".
func (g Drawing) Summary() string {
	return fmt.Sprintf("%d nodes, %d edges", len(g.Nodes), len(g.Edges))
}
