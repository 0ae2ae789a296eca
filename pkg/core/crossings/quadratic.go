package crossings

import (
	"context"
	"fmt"

	"github.com/matzehuels/gdcross/pkg/core/drawing"
)

// quadratic tests every unordered pair of edges and applies the same
// consolidation and pruning as the sweep. It needs no ordering structures,
// so it is immune to the precision problems the sweep can run into.
func quadratic(ctx context.Context, d *drawing.Drawing, opts Options) ([]Crossing, error) {
	tol := opts.Tol()
	s := newScene(d, tol)
	out := newCollector(tol)

	pairs := 0
	for i, a := range s.infos {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("quadratic at edge %v: %w", a.edge, err)
		}
		for _, b := range s.infos[i+1:] {
			pairs++
			pos, ok := checkLines(tol, a, b)
			if !ok {
				continue
			}
			switch pos.Kind {
			case PositionPoint:
				out.addPoint(pos.Point, a.edge, b.edge)
			case PositionLine:
				out.addLine(pos, a.edge, b.edge)
			}
		}
	}
	opts.debug("pairs checked", "pairs", pairs, "points", out.points.Len(), "lines", len(out.lines))
	return out.finish(s, opts), nil
}
