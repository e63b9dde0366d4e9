package czml

import (
	"errors"
	"fmt"

	"github.com/star/czmlgo/internal/orbit"
	"github.com/star/czmlgo/internal/transform"
)

var (
	// ErrInvalidEpoch is returned when an orbit starts after the window ends.
	ErrInvalidEpoch = errors.New("The orbit's epoch cannot exceed the constructor's ending epoch")

	// ErrInvalidCoordinates is returned for non-finite station coordinates.
	ErrInvalidCoordinates = errors.New("invalid ground station coordinates")

	// ErrUnknownFrame is returned for a reference frame other than INERTIAL or FIXED.
	ErrUnknownFrame = errors.New("unknown reference frame")
)

const (
	interpolationAlgorithm = "LAGRANGE"
	interpolationDegree    = 5
)

// buildOrbitPacket samples o over w and assembles a self-contained packet.
func buildOrbitPacket(o orbit.Orbit, w Window, style OrbitStyle, id string) (Packet, error) {
	if o.Epoch().After(w.End) {
		return Packet{}, fmt.Errorf("%w: orbit epoch %s, ending epoch %s", ErrInvalidEpoch,
			formatTime(o.Epoch()), formatTime(w.End))
	}

	frame := style.ReferenceFrame
	if frame == "" {
		frame = FrameInertial
	}
	if frame != FrameInertial && frame != FrameFixed {
		return Packet{}, fmt.Errorf("%w: %q", ErrUnknownFrame, frame)
	}

	points, err := Sample(o, w)
	if err != nil {
		return Packet{}, err
	}

	cartesian := make([]float64, 0, 4*len(points))
	for _, p := range points {
		pos := p.Position
		if frame == FrameFixed {
			pos = transform.InertialToFixed(pos, w.Start.Add(p.Elapsed))
		}
		cartesian = append(cartesian, p.Elapsed.Seconds(), pos[0], pos[1], pos[2])
	}

	if style.ID != "" {
		id = style.ID
	}
	return Packet{
		ID:           id,
		Name:         style.Name,
		Description:  style.Description,
		Availability: w.Interval(),
		Position: &Position{
			InterpolationAlgorithm: interpolationAlgorithm,
			InterpolationDegree:    interpolationDegree,
			ReferenceFrame:         frame,
			Epoch:                  formatTime(w.Start),
			Cartesian:              cartesian,
		},
		Label: style.label(id),
		Path:  style.path(),
	}, nil
}

// buildStationPacket places a ground station on the ellipsoid surface.
// Stations are projected with the two equatorial radii (Rx, Ry).
func buildStationPacket(g transform.Geodetic, w Window, e transform.Ellipsoid, style StationStyle, index int) (Packet, error) {
	if !g.IsFinite() {
		return Packet{}, fmt.Errorf("%w: lat=%v lon=%v height=%v", ErrInvalidCoordinates,
			g.Lat.Radians(), g.Lon.Radians(), g.Height)
	}

	pos := transform.GeodeticToCartesian(e.Rx, e.Ry, g)

	id := style.ID
	if id == "" {
		id = fmt.Sprintf("GS%d", index)
	}
	name := style.Name
	if name == "" {
		name = DefaultStationName
	}

	pkt := Packet{
		ID:           id,
		Name:         name,
		Description:  style.Description,
		Availability: w.Interval(),
		Position:     &Position{Cartesian: pos[:]},
		Label:        style.label(name),
	}
	if style.BillboardImage != "" {
		pkt.Billboard = &Billboard{Image: style.BillboardImage, Scale: 1, Show: true}
	}
	return pkt, nil
}
