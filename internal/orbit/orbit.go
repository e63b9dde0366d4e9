// Package orbit provides the propagation collaborators the CZML extractor
// samples: a two-body Kepler orbit and an SGP4 orbit built from TLE lines.
// Both report geocentric inertial states in SI units.
package orbit

import "time"

// EarthMu is Earth's standard gravitational parameter in m³/s².
const EarthMu = 3.986004418e14

// State is a position and velocity in meters and m/s.
type State struct {
	Position [3]float64
	Velocity [3]float64
}

// Orbit is anything that can be propagated from its own epoch.
// Elapsed may be negative.
type Orbit interface {
	Epoch() time.Time
	Period() time.Duration
	Propagate(elapsed time.Duration) (State, error)
}
