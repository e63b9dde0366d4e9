package transform

import (
	"math"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
	}{
		{"J2000.0 epoch", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"Unix epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 2440587.5},
		// Vallado Example 3-15: April 6, 2004, 07:51:28.386 UTC.
		{"Vallado example date", time.Date(2004, 4, 6, 7, 51, 28, 386009000, time.UTC), 2453101.827411875},
		{"non-UTC location", time.Date(2000, 1, 1, 13, 0, 0, 0, time.FixedZone("CET", 3600)), 2451545.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			if diff := math.Abs(got - tt.expected); diff > 1e-6 {
				t.Errorf("JulianDate(%v) = %.10f, want %.10f (diff=%.2e)", tt.time, got, tt.expected, diff)
			}
		})
	}
}

// TestGMST compares against go-satellite's GSTimeFromDate, which implements
// the same IAU-82 model.
func TestGMST(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
	}{
		{"J2000.0 epoch", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"Vallado example date", time.Date(2004, 4, 6, 7, 51, 28, 0, time.UTC)},
		{"ISS example epoch", time.Date(2013, 3, 18, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			our := GMST(tt.time)
			ref := satellite.GSTimeFromDate(
				tt.time.Year(), int(tt.time.Month()), tt.time.Day(),
				tt.time.Hour(), tt.time.Minute(), tt.time.Second(),
			)
			if diff := math.Abs(our - ref); diff > 1e-7 {
				t.Errorf("GMST(%v) = %.12f rad, go-satellite = %.12f rad (diff=%.2e)", tt.time, our, ref, diff)
			}
			if our < 0 || our >= 2*math.Pi {
				t.Errorf("GMST(%v) = %f, want within [0, 2π)", tt.time, our)
			}
		})
	}
}

func TestInertialToFixed(t *testing.T) {
	tests := []struct {
		name string
		pos  [3]float64 // meters
		time time.Time
	}{
		{"Vallado example 3-15", [3]float64{5094180.16, 6127644.65, 6380344.53}, time.Date(2004, 4, 6, 7, 51, 28, 0, time.UTC)},
		{"LEO equatorial", [3]float64{6778000, 0, 0}, time.Date(2026, 2, 6, 12, 0, 0, 0, time.UTC)},
		{"LEO polar", [3]float64{0, 0, 6978000}, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gmst := satellite.GSTimeFromDate(
				tt.time.Year(), int(tt.time.Month()), tt.time.Day(),
				tt.time.Hour(), tt.time.Minute(), tt.time.Second(),
			)

			got := InertialToFixedWithGMST(tt.pos, gmst)
			ref := satellite.ECIToECEF(satellite.Vector3{X: tt.pos[0], Y: tt.pos[1], Z: tt.pos[2]}, gmst)

			want := [3]float64{ref.X, ref.Y, ref.Z}
			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-3 {
					t.Errorf("axis %d: got %.3f m, go-satellite %.3f m", i, got[i], want[i])
				}
			}

			// A rotation preserves the magnitude.
			if math.Abs(norm(got)-norm(tt.pos)) > 1e-3 {
				t.Errorf("magnitude changed: %.3f -> %.3f", norm(tt.pos), norm(got))
			}
		})
	}
}

func TestInertialToFixedZeroGMST(t *testing.T) {
	pos := [3]float64{1, 2, 3}
	if got := InertialToFixedWithGMST(pos, 0); got != pos {
		t.Errorf("zero rotation changed position: %v", got)
	}
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
