package drawing_test

import (
	"fmt"

	"github.com/matzehuels/gdcross/pkg/core/drawing"
)

func ExampleDrawing() {
	d := drawing.New(nil)
	_ = d.AddNode(drawing.Node{ID: "a", X: 0, Y: 0})
	_ = d.AddNode(drawing.Node{ID: "b", X: 2, Y: 0})
	_ = d.AddNode(drawing.Node{ID: "c", X: 1, Y: 3})
	_ = d.AddEdge("a", "b")
	_ = d.AddEdge("b", "c")

	fmt.Println("Nodes:", d.NodeCount())
	fmt.Println("Edges:", d.EdgeCount())
	fmt.Println("Neighbors of b:", d.Neighbors("b"))
	fmt.Println("Duplicate:", d.AddEdge("c", "b"))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Neighbors of b: [a c]
	// Duplicate: edge already exists
}
