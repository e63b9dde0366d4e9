package transform

import (
	"math"
	"testing"
)

func TestAngleUnits(t *testing.T) {
	if got := Degrees(180).Radians(); math.Abs(got-math.Pi) > 1e-15 {
		t.Errorf("Degrees(180).Radians() = %v, want π", got)
	}
	if got := Radians(math.Pi / 2).Degrees(); math.Abs(got-90) > 1e-12 {
		t.Errorf("Radians(π/2).Degrees() = %v, want 90", got)
	}
}

func TestGeodeticToCartesian_Sphere(t *testing.T) {
	tests := []struct {
		name string
		g    Geodetic
		want [3]float64
	}{
		{
			name: "degrees",
			g:    Geodetic{Lat: Degrees(32), Lon: Degrees(62)},
			want: [3]float64{2539356.1623202674, 4775834.339416022, 3379897.6662185807},
		},
		{
			name: "radians",
			g:    Geodetic{Lat: Radians(0.70930), Lon: Radians(0.40046)},
			want: [3]float64{4456924.997008477, 1886774.8000006324, 4154098.219336245},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeodeticToCartesian(WGS84.Rx, WGS84.Ry, tt.g)
			for i := range got {
				if rel := math.Abs(got[i]-tt.want[i]) / math.Abs(tt.want[i]); rel > 1e-4 {
					t.Errorf("axis %d = %.3f, want %.3f (rel=%.2e)", i, got[i], tt.want[i], rel)
				}
			}
		})
	}
}

func TestEllipsoidToCartesian_WGS84(t *testing.T) {
	// Equator at the prime meridian sits on the semi-major axis.
	eq := WGS84.ToCartesian(Geodetic{})
	if math.Abs(eq[0]-6378137.0) > 1e-6 || eq[1] != 0 || eq[2] != 0 {
		t.Errorf("equator = %v, want [6378137 0 0]", eq)
	}

	// The pole sits on the semi-minor axis.
	pole := WGS84.ToCartesian(Geodetic{Lat: Degrees(90)})
	if math.Abs(pole[2]-WGS84.Rz) > 1e-3 {
		t.Errorf("pole z = %.3f, want %.3f", pole[2], WGS84.Rz)
	}
}

func TestGeodeticToCartesian_Height(t *testing.T) {
	g := Geodetic{Lat: Degrees(45), Lon: Degrees(-120)}
	base := WGS84.ToCartesian(g)
	g.Height = 100
	up := WGS84.ToCartesian(g)

	if diff := norm(up) - norm(base); math.Abs(diff-100) > 0.05 {
		t.Errorf("height difference = %.3f m, want ~100 m", diff)
	}
}

func TestGeodeticIsFinite(t *testing.T) {
	if !(Geodetic{Lat: Degrees(10), Lon: Degrees(20), Height: 5}).IsFinite() {
		t.Error("finite geodetic reported as non-finite")
	}
	if (Geodetic{Lat: Angle(math.NaN())}).IsFinite() {
		t.Error("NaN latitude reported as finite")
	}
	if (Geodetic{Height: math.Inf(1)}).IsFinite() {
		t.Error("infinite height reported as finite")
	}
}

func TestEllipsoidIsZero(t *testing.T) {
	if !(Ellipsoid{}).IsZero() {
		t.Error("zero ellipsoid not reported as zero")
	}
	if WGS84.IsZero() {
		t.Error("WGS84 reported as zero")
	}
}
