package transform

import "math"

// Ellipsoid holds the three semi-axes of a reference body in meters.
// Rx and Ry are equatorial, Rz is polar.
type Ellipsoid struct {
	Rx, Ry, Rz float64
}

// WGS84 is the default reference ellipsoid.
var WGS84 = Ellipsoid{
	Rx: 6378137.0,
	Ry: 6378137.0,
	Rz: 6356752.314245179,
}

// IsZero reports whether no radius has been set.
func (e Ellipsoid) IsZero() bool {
	return e.Rx == 0 && e.Ry == 0 && e.Rz == 0
}

// Radii returns the semi-axes as a slice in x, y, z order.
func (e Ellipsoid) Radii() []float64 {
	return []float64{e.Rx, e.Ry, e.Rz}
}

// ToCartesian converts a geodetic position using the equatorial and polar radii.
func (e Ellipsoid) ToCartesian(g Geodetic) [3]float64 {
	return GeodeticToCartesian(e.Rx, e.Rz, g)
}

// Geodetic is a position given as latitude, longitude and height above the
// ellipsoid surface in meters.
type Geodetic struct {
	Lat, Lon Angle
	Height   float64
}

// IsFinite reports whether every component is a finite number.
func (g Geodetic) IsFinite() bool {
	for _, v := range []float64{float64(g.Lat), float64(g.Lon), g.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// GeodeticToCartesian maps a geodetic position to body-centered Cartesian
// meters on the ellipsoid of revolution with semi-major axis a and
// semi-minor axis c.
//
//	e² = 1 - (c/a)²
//	N  = a / sqrt(1 - e² sin²φ)
//	x  = (N + h) cosφ cosλ
//	y  = (N + h) cosφ sinλ
//	z  = ((1 - e²) N + h) sinφ
func GeodeticToCartesian(a, c float64, g Geodetic) [3]float64 {
	lat := g.Lat.Radians()
	lon := g.Lon.Radians()

	e2 := 1 - (c/a)*(c/a)
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	// Radius of curvature in the prime vertical.
	n := a / math.Sqrt(1-e2*sinLat*sinLat)

	return [3]float64{
		(n + g.Height) * cosLat * cosLon,
		(n + g.Height) * cosLat * sinLon,
		((1-e2)*n + g.Height) * sinLat,
	}
}
