// Package drawing provides the embedded graph consumed by the crossing engine.
//
// # Overview
//
// A [Drawing] is an undirected graph whose nodes carry a position in the
// plane. Each edge is drawn as the straight segment between the positions of
// its endpoints. Self-loops are allowed (they are drawn as a single point and
// never cross anything); parallel edges are not, so an unordered node pair
// identifies at most one edge.
//
// # Basic Usage
//
//	d := drawing.New(nil)
//	_ = d.AddNode(drawing.Node{ID: "a", X: 0, Y: 0})
//	_ = d.AddNode(drawing.Node{ID: "b", X: 1, Y: 1})
//	_ = d.AddEdge("a", "b")
//
// Query the structure with [Drawing.Nodes], [Drawing.Edges], [Drawing.Degree]
// and [Drawing.Neighbors]. Iteration order is insertion order everywhere, so
// algorithms that walk a drawing are deterministic.
//
// # Node Kinds
//
//   - [KindRegular]: a vertex of the input drawing
//   - [KindCrossing]: a vertex inserted by planarization at a crossing point
//
// # Concurrency
//
// Drawing instances are not safe for concurrent use. Read-only algorithms
// (crossing detection, metrics) may share a drawing across goroutines as
// long as nobody mutates it.
package drawing
