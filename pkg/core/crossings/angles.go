package crossings

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/gdcross/pkg/core/drawing"
	"github.com/matzehuels/gdcross/pkg/geom"
)

// Angles returns the angles between consecutive edge directions around c,
// in clockwise order starting from the direction closest to straight up.
//
// Directions point from the crossing to the endpoints of the involved edges;
// endpoints lying at the crossing itself are skipped. An overlap is measured
// around the midpoint of its line, so its collinear directions alternate
// between 0 and 180 degrees. With at most one direction the result is a
// single full turn. Angles are in radians unless [Options.Degrees] is set.
func Angles(d *drawing.Drawing, c Crossing, opts Options) []float64 {
	tol := opts.Tol()
	origin := c.Position.Anchor()

	type direction struct {
		id    string
		v     geom.Vector
		angle geom.Angle
	}
	up := geom.V(0, 1)
	seen := make(map[string]struct{})
	var dirs []direction
	for _, e := range c.Edges {
		for _, id := range [...]string{e.U, e.V} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			p, ok := d.Position(id)
			if !ok || tol.PointEq(p, origin) {
				continue
			}
			v := p.Sub(origin)
			dirs = append(dirs, direction{id: id, v: v, angle: up.Angle(v)})
		}
	}

	unit := func(a geom.Angle) float64 {
		if opts.Degrees {
			return a.Deg()
		}
		return a.Rad()
	}
	if len(dirs) <= 1 {
		return []float64{unit(geom.FullTurn)}
	}

	slices.SortFunc(dirs, func(a, b direction) int {
		if c := cmp.Compare(a.angle, b.angle); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	out := make([]float64, len(dirs))
	for i, a := range dirs {
		b := dirs[(i+1)%len(dirs)]
		out[i] = unit(a.v.Angle(b.v))
	}
	return out
}

// AngularResolution compares the smallest angle at each crossing with the
// optimum of π divided by the number of involved edges and returns one minus
// the average relative deviation. Without crossings it is 1.
func AngularResolution(d *drawing.Drawing, list []Crossing, opts Options) float64 {
	opts.Degrees = false
	sum, n := 0.0, 0
	for _, c := range list {
		if len(c.Edges) == 0 {
			continue
		}
		optimal := math.Pi / float64(len(c.Edges))
		smallest := slices.Min(Angles(d, c, opts))
		sum += math.Abs((optimal - smallest) / optimal)
		n++
	}
	if n == 0 {
		return 1
	}
	return 1 - sum/float64(n)
}
