package orbit

import (
	"math"
	"time"
)

// ISS returns a two-body orbit from the ISS state vector of 2013-03-18T12:00Z.
func ISS() *Kepler {
	k, err := NewKeplerFromVectors(EarthMu,
		[3]float64{8.59072560e5, -4.13720368e6, 5.29556871e6},
		[3]float64{7.37289205e3, 2.08223573e3, 4.39999794e2},
		time.Date(2013, 3, 18, 12, 0, 0, 0, time.UTC),
	)
	if err != nil {
		panic(err)
	}
	return k
}

// Molniya returns a two-body Molniya orbit at J2000.
func Molniya() *Kepler {
	k, err := NewKeplerFromElements(EarthMu, Elements{
		SemiMajorAxis: 26600e3,
		Eccentricity:  0.75,
		Inclination:   63.4 * math.Pi / 180,
		RAAN:          0,
		ArgPerigee:    270 * math.Pi / 180,
		TrueAnomaly:   80 * math.Pi / 180,
	}, time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	return k
}
