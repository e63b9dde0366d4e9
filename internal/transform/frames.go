// Package transform holds the geometry the CZML builder needs: explicit angle
// units, geodetic to Cartesian conversion on a reference ellipsoid, and the
// inertial to Earth-fixed rotation used for FIXED reference frame tracks.
//
// The rotation is the simplified Vallado form driven by GMST alone (TEME ≈ PEF).
// Polar motion and the equation of the equinoxes are ignored, which is well
// inside what a globe visualizer can show.
package transform

import (
	"math"
	"time"
)

const (
	// jdUnixEpoch is the Julian Date of 1970-01-01T00:00:00Z.
	jdUnixEpoch = 2440587.5
	// jdJ2000 is the Julian Date of the J2000.0 epoch.
	jdJ2000 = 2451545.0

	secondsPerDay = 86400.0
)

// OmegaEarth is Earth's rotation rate in rad/s.
const OmegaEarth = 7.292115146706979e-5

// JulianDate converts t to a Julian Date on the UTC scale.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	sec := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return jdUnixEpoch + sec/secondsPerDay
}

// GMST returns Greenwich Mean Sidereal Time in radians, IAU-82 model
// (Vallado eq. 3-47), with UT1 approximated by UTC.
func GMST(t time.Time) float64 {
	tu := (JulianDate(t) - jdJ2000) / 36525.0

	// Seconds of time; 876600h = 3155760000 s.
	sec := 67310.54841 +
		(3155760000.0+8640184.812866)*tu +
		0.093104*tu*tu -
		6.2e-6*tu*tu*tu

	sec = math.Mod(sec, secondsPerDay)
	if sec < 0 {
		sec += secondsPerDay
	}
	return sec / secondsPerDay * 2 * math.Pi
}

// InertialToFixed rotates an inertial position into the Earth-fixed frame at t.
// Units are preserved.
func InertialToFixed(pos [3]float64, t time.Time) [3]float64 {
	return InertialToFixedWithGMST(pos, GMST(t))
}

// InertialToFixedWithGMST applies r_fixed = R3(θ) · r_inertial for a
// precomputed GMST angle θ in radians.
func InertialToFixedWithGMST(pos [3]float64, gmst float64) [3]float64 {
	sinG, cosG := math.Sincos(gmst)
	return [3]float64{
		pos[0]*cosG + pos[1]*sinG,
		-pos[0]*sinG + pos[1]*cosG,
		pos[2],
	}
}
