package transform

import "math"

// Angle is a plane angle stored in radians. Construct it with Degrees or
// Radians so the unit is always explicit at the call site.
type Angle float64

// Degrees returns the angle for v degrees.
func Degrees(v float64) Angle {
	return Angle(v * math.Pi / 180.0)
}

// Radians returns the angle for v radians.
func Radians(v float64) Angle {
	return Angle(v)
}

// Radians returns the angle in radians.
func (a Angle) Radians() float64 {
	return float64(a)
}

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180.0 / math.Pi
}
