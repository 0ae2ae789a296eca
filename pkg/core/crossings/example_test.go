package crossings_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/gdcross/pkg/core/crossings"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
)

func square() *drawing.Drawing {
	d := drawing.New(nil)
	_ = d.AddNode(drawing.Node{ID: "a", X: 0, Y: 0})
	_ = d.AddNode(drawing.Node{ID: "b", X: 2, Y: 0})
	_ = d.AddNode(drawing.Node{ID: "c", X: 2, Y: 2})
	_ = d.AddNode(drawing.Node{ID: "d", X: 0, Y: 2})
	_ = d.AddEdge("a", "c")
	_ = d.AddEdge("b", "d")
	_ = d.AddEdge("a", "b")
	return d
}

func ExampleDetect() {
	d := square()
	list, err := crossings.Detect(context.Background(), d, crossings.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, c := range list {
		fmt.Println(c.Position, c.Edges)
	}
	fmt.Println("Count:", crossings.Count(list))
	fmt.Printf("Density: %.2f\n", crossings.Density(d, list, crossings.DefaultOptions()))
	// Output:
	// point (1, 1) [{a c} {b d}]
	// Count: 1
	// Density: 0.00
}

func ExampleAngles() {
	d := square()
	opts := crossings.Options{Degrees: true}
	list, _ := crossings.Detect(context.Background(), d, opts)
	fmt.Printf("%.0f\n", crossings.Angles(d, list[0], opts))
	// Output:
	// [90 90 90 90]
}

func ExamplePlanarize() {
	d := square()
	res, err := crossings.Planarize(context.Background(), d, crossings.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Added:", res.AddedNodes)
	fmt.Println("Nodes:", d.NodeCount(), "Edges:", d.EdgeCount())
	fmt.Println("Center:", d.Neighbors("crossing0"))
	// Output:
	// Added: [crossing0]
	// Nodes: 5 Edges: 5
	// Center: [a b c d]
}
