package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gdcross/pkg/core/crossings"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	"github.com/matzehuels/gdcross/pkg/geom"
	"github.com/matzehuels/gdcross/pkg/render"
)

// HighlightColor is used for crossing edges, nodes and markers.
const HighlightColor = "#d62728"

// Options configures node-link diagram rendering.
type Options struct {
	// Scale is the number of inches per drawing unit. Zero means 1.
	Scale float64

	// Labels draws node IDs next to the nodes.
	Labels bool

	// Detailed appends node metadata to the labels. Implies Labels.
	Detailed bool
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

// ToDOT converts a drawing to Graphviz DOT with every node pinned at its
// position. The resulting DOT string can be rendered using [RenderSVG],
// [RenderPDF], or [RenderPNG].
//
// Edges taking part in a crossing of list are drawn in [HighlightColor], as
// are crossing nodes inserted by planarization and singleton participants.
// Each crossing also gets a marker: a point, or a thick segment for
// crossings along a line.
func ToDOT(d *drawing.Drawing, list []crossings.Crossing, opts Options) string {
	crossed := make(map[drawing.Edge]bool)
	marked := make(map[string]bool)
	for _, c := range list {
		for _, e := range c.Edges {
			crossed[e.Key()] = true
		}
		for _, id := range c.Singletons {
			marked[id] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  forcelabels=true;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, width=0.12, fixedsize=true, label=\"\", fontsize=10];\n")
	buf.WriteString("  edge [color=\"#444444\"];\n")
	buf.WriteString("\n")

	s := opts.scale()
	for _, n := range d.Nodes() {
		attrs := fmtAttrs(*n, marked[n.ID], opts)
		attrs = append(attrs, fmtPos(n.Pos(), s))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges() {
		if crossed[e.Key()] {
			fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=2];\n", e.U, e.V, HighlightColor)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.U, e.V)
	}

	if len(list) > 0 {
		buf.WriteString("\n")
	}
	for i, c := range list {
		id := fmt.Sprintf("__crossing%d", i)
		switch c.Position.Kind {
		case crossings.PositionPoint:
			fmt.Fprintf(&buf, "  %q [shape=point, width=0.06, color=%q, %s];\n", id, HighlightColor, fmtPos(c.Position.Point, s))
		case crossings.PositionLine:
			fmt.Fprintf(&buf, "  %q [shape=point, width=0.06, color=%q, %s];\n", id+"a", HighlightColor, fmtPos(c.Position.Line.Start, s))
			fmt.Fprintf(&buf, "  %q [shape=point, width=0.06, color=%q, %s];\n", id+"b", HighlightColor, fmtPos(c.Position.Line.End, s))
			fmt.Fprintf(&buf, "  %q -- %q [color=%q, penwidth=5];\n", id+"a", id+"b", HighlightColor)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtPos(p geom.Vector, scale float64) string {
	return fmt.Sprintf("pos=\"%s,%s!\"", fmtNum(p.X*scale), fmtNum(p.Y*scale))
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtLabel(n drawing.Node, detailed bool) string {
	if !detailed || len(n.Meta) == 0 {
		return n.ID
	}

	parts := make([]string, 0, len(n.Meta))
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n drawing.Node, singleton bool, opts Options) []string {
	var attrs []string
	if opts.Labels || opts.Detailed {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", fmtLabel(n, opts.Detailed)))
	}
	switch {
	case n.IsCrossing():
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", HighlightColor), "width=0.08")
	case singleton:
		attrs = append(attrs, fmt.Sprintf("color=%q", HighlightColor), "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using the Graphviz neato engine, which
// keeps pinned node positions. Returns the SVG bytes ready for display or
// further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// Render produces the output for format, one of the render.Format constants.
// DOT output is the source returned by [ToDOT].
func Render(dot, format string, scale float64) ([]byte, error) {
	switch format {
	case render.FormatDOT:
		return []byte(dot), nil
	case render.FormatSVG:
		return RenderSVG(dot)
	case render.FormatPDF:
		return RenderPDF(dot)
	case render.FormatPNG:
		return RenderPNG(dot, scale)
	}
	return nil, fmt.Errorf("unsupported render format %q", format)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
