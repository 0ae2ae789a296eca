// Package render provides visualization output for embedded drawings.
//
// # Overview
//
// This package contains the format conversion shared by all renderers:
//
//   - [FormatOf] picks an output format from a file extension
//   - [ToPDF] and [ToPNG] convert SVG using the external rsvg-convert tool
//     (from librsvg)
//
// The [nodelink] subpackage draws a drawing at its own coordinates with
// Graphviz and highlights crossings:
//
//	dot := nodelink.ToDOT(d, list, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//
// [nodelink]: github.com/matzehuels/gdcross/pkg/render/nodelink
package render
