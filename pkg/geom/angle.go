package geom

import "math"

// FullTurn is 2π radians.
const FullTurn Angle = 2 * math.Pi

// Angle is measured in radians.
type Angle float64

// Deg converts a degree value to an Angle.
func Deg(d float64) Angle { return Angle(d * math.Pi / 180) }

// Rad returns the angle in radians.
func (a Angle) Rad() float64 { return float64(a) }

// Deg returns the angle in degrees.
func (a Angle) Deg() float64 { return float64(a) * 180 / math.Pi }

// Normalize maps a into [0, 2π).
func (a Angle) Normalize() Angle {
	r := math.Mod(float64(a), float64(FullTurn))
	if r < 0 {
		r += float64(FullTurn)
	}
	return Angle(r)
}
