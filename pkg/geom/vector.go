package geom

import (
	"fmt"
	"math"
)

// Vector is a 2D point or direction.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vector{x, y}.
func V(x, y float64) Vector { return Vector{X: x, Y: y} }

// Add returns v+o.
func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }
func (v Vector) Scale(f float64) Vector { return Vector{v.X * f, v.Y * f} }
func (v Vector) Dot(o Vector) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vector) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vector) Dist(o Vector) float64 { return v.Sub(o).Len() }
func (v Vector) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }
func (v Vector) IsZero() bool { return v.X == 0 && v.Y == 0 }
func (v Vector) Lerp(o Vector, t float64) Vector { return v.Add(o.Sub(v).Scale(t)) }

// Cross returns the z component of the 3D cross product of v and o.
func (v Vector) Cross(o Vector) float64 { return v.X*o.Y - v.Y*o.X }

// Rotate rotates v counter-clockwise by a around the origin.
func (v Vector) Rotate(a Angle) Vector {
	sin, cos := math.Sincos(float64(a))
	return Vector{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// RotateAround rotates v counter-clockwise by a around center.
func (v Vector) RotateAround(center Vector, a Angle) Vector {
	return v.Sub(center).Rotate(a).Add(center)
}

// Angle returns the clockwise angle from v to o in [0, 2π).
// It is zero if either vector has zero length.
func (v Vector) Angle(o Vector) Angle {
	if v.IsZero() || o.IsZero() {
		return 0
	}
	det := o.X*v.Y - o.Y*v.X
	return Angle(math.Atan2(det, o.Dot(v))).Normalize()
}

// Finite reports whether both coordinates are finite numbers.
func (v Vector) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
