package orbit

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/star/czmlgo/internal/tle"
)

// SGP4 propagates a TLE with github.com/joshuaferrara/go-satellite.
//
// go-satellite takes calendar components with whole seconds, so targets are
// rounded to the nearest second. Propagate() takes Satellite by value, so SGP4
// error codes are not visible; failures are detected from NaN/Inf output and
// implausible magnitudes instead.
type SGP4 struct {
	sat     satellite.Satellite
	noradID int
	name    string
	epoch   time.Time
	period  time.Duration
}

// NewSGP4 initializes an SGP4 orbit from a parsed TLE entry.
//
// TLE lines are pre-validated because go-satellite calls log.Fatal on
// malformed input.
func NewSGP4(entry tle.TLEEntry) (*SGP4, error) {
	if err := validateTLELines(entry.Line1, entry.Line2); err != nil {
		return nil, fmt.Errorf("invalid TLE for NORAD %d: %w", entry.NORADID, err)
	}
	if entry.MeanMotion <= 0 {
		return nil, fmt.Errorf("invalid TLE for NORAD %d: mean motion %g rev/day", entry.NORADID, entry.MeanMotion)
	}

	sat := satellite.TLEToSat(entry.Line1, entry.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed for NORAD %d: code=%d %s", entry.NORADID, sat.Error, sat.ErrorStr)
	}

	return &SGP4{
		sat:     sat,
		noradID: entry.NORADID,
		name:    entry.Name,
		epoch:   entry.Epoch,
		period:  time.Duration(86400.0 / entry.MeanMotion * float64(time.Second)),
	}, nil
}

// validateTLELines performs basic format validation on TLE lines.
func validateTLELines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got '%c'", line2[0])
	}
	return nil
}

// NORADID returns the catalog number.
func (s *SGP4) NORADID() int {
	return s.noradID
}

// Name returns the satellite name from the TLE title line.
func (s *SGP4) Name() string {
	return s.name
}

// Epoch returns the TLE epoch.
func (s *SGP4) Epoch() time.Time {
	return s.epoch
}

// Period returns the period implied by the TLE mean motion.
func (s *SGP4) Period() time.Duration {
	return s.period
}

// Propagate returns the TEME state at epoch+elapsed in meters and m/s.
func (s *SGP4) Propagate(elapsed time.Duration) (State, error) {
	t := s.epoch.Add(elapsed).UTC().Round(time.Second)
	pos, vel := satellite.Propagate(s.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return State{}, fmt.Errorf("sgp4 propagation failed for NORAD %d: output is NaN/Inf", s.noradID)
	}

	// Between ~6200 km and ~50000 km from the geocenter.
	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	if mag < 6200.0 || mag > 50000.0 {
		return State{}, fmt.Errorf("sgp4 propagation failed for NORAD %d: unreasonable position magnitude %.1f km", s.noradID, mag)
	}

	return State{
		Position: [3]float64{pos.X * 1000, pos.Y * 1000, pos.Z * 1000},
		Velocity: [3]float64{vel.X * 1000, vel.Y * 1000, vel.Z * 1000},
	}, nil
}
