// Package nodelink renders embedded drawings as node-link diagrams.
//
// # Overview
//
// Unlike a layout engine, this package never moves nodes: every node is
// pinned at its drawing coordinates with a `pos="x,y!"` attribute and the
// Graphviz neato engine only draws. Edges are straight, so the picture shows
// exactly the crossings that detection reports.
//
// # Usage
//
//	list, _ := crossings.Detect(ctx, d, crossings.DefaultOptions())
//	dot := nodelink.ToDOT(d, list, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Highlighting
//
// Edges that take part in a crossing, crossing nodes inserted by
// planarization, and singleton participants are drawn in [HighlightColor].
// Point crossings get a small marker; crossings along a line get a thick
// segment over the shared part.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
