package czml

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strconv"
	"time"

	"github.com/star/czmlgo/internal/metrics"
	"github.com/star/czmlgo/internal/orbit"
	"github.com/star/czmlgo/internal/transform"
)

const (
	// DocumentID is the id of the reserved first packet.
	DocumentID = "document"

	documentVersion        = "1.0"
	defaultDocumentName    = "document_packet"
	defaultClockMultiplier = 60
)

// ErrDuplicateID is returned when a station id is already in the document.
var ErrDuplicateID = errors.New("duplicate packet id")

// Config holds the extractor-wide settings.
type Config struct {
	Start   time.Time
	End     time.Time
	Samples int

	// Ellipsoid overrides the reference body. When set it is also written to
	// the document packet as a custom attractor. Zero means WGS84.
	Ellipsoid transform.Ellipsoid
	// MapURL is an imagery URL for the custom attractor, written as map_url.
	MapURL string

	Name            string  // document name (default "document_packet")
	ClockMultiplier float64 // viewer clock speed-up (default 60)
}

// Extractor accumulates a CZML document. Packets are appended, never removed.
//
// An Extractor is not safe for concurrent use; callers sharing one must
// serialize access themselves.
type Extractor struct {
	window    Window
	ellipsoid transform.Ellipsoid
	logger    *slog.Logger

	packets  []Packet
	byID     map[string]int // station id -> index into packets
	orbits   int
	stations int
}

// NewExtractor validates the window and seeds the document packet.
func NewExtractor(cfg Config, logger *slog.Logger) (*Extractor, error) {
	w := Window{Start: cfg.Start, End: cfg.End, Samples: cfg.Samples}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	ellipsoid := cfg.Ellipsoid
	if ellipsoid.IsZero() {
		ellipsoid = transform.WGS84
	}
	name := cfg.Name
	if name == "" {
		name = defaultDocumentName
	}
	multiplier := cfg.ClockMultiplier
	if multiplier <= 0 {
		multiplier = defaultClockMultiplier
	}

	e := &Extractor{
		window:    w,
		ellipsoid: ellipsoid,
		logger:    logger,
		byID:      make(map[string]int),
	}
	e.packets = append(e.packets, Packet{
		ID:      DocumentID,
		Name:    name,
		Version: documentVersion,
		Clock: &Clock{
			Interval:    w.Interval(),
			CurrentTime: formatTime(w.Start),
			Multiplier:  multiplier,
			Range:       "LOOP_STOP",
			Step:        "SYSTEM_CLOCK_MULTIPLIER",
		},
	})

	custom := make(map[string]any)
	if !cfg.Ellipsoid.IsZero() {
		custom["custom_attractor"] = true
		custom["ellipsoid"] = []ArrayValue{{Array: cfg.Ellipsoid.Radii()}}
	}
	if cfg.MapURL != "" {
		custom["map_url"] = cfg.MapURL
	}
	if len(custom) > 0 {
		e.SetCustomProperties(custom)
	}

	logger.Debug("czml extractor created",
		"start", formatTime(w.Start),
		"end", formatTime(w.End),
		"samples", w.Samples,
		"step_seconds", w.Step().Seconds(),
	)
	return e, nil
}

// Window returns the sampling window shared by every orbit packet.
func (e *Extractor) Window() Window {
	return e.window
}

// Ellipsoid returns the reference ellipsoid in use.
func (e *Extractor) Ellipsoid() transform.Ellipsoid {
	return e.ellipsoid
}

// AddOrbit samples o over the window and appends its packet.
// On error nothing is appended.
func (e *Extractor) AddOrbit(o orbit.Orbit, style OrbitStyle) error {
	start := time.Now()
	pkt, err := buildOrbitPacket(o, e.window, style, strconv.Itoa(e.orbits))
	if err != nil {
		metrics.IncBuildErrors(errorReason(err))
		return err
	}

	e.packets = append(e.packets, pkt)
	e.orbits++

	metrics.IncPackets("orbit")
	metrics.AddSamples(e.window.Samples)
	metrics.ObserveOrbitBuild(time.Since(start))

	e.logger.Debug("orbit packet added",
		"id", pkt.ID,
		"samples", e.window.Samples,
		"frame", pkt.Position.ReferenceFrame,
	)
	return nil
}

// AddGroundStation appends a static packet for a station and returns its id.
// Ids default to GS0, GS1, ... in insertion order.
func (e *Extractor) AddGroundStation(g transform.Geodetic, style StationStyle) (string, error) {
	pkt, err := buildStationPacket(g, e.window, e.ellipsoid, style, e.stations)
	if err != nil {
		metrics.IncBuildErrors(errorReason(err))
		return "", err
	}
	if _, taken := e.byID[pkt.ID]; taken || pkt.ID == DocumentID {
		metrics.IncBuildErrors("duplicate_id")
		return "", fmt.Errorf("%w: %q", ErrDuplicateID, pkt.ID)
	}

	e.byID[pkt.ID] = len(e.packets)
	e.packets = append(e.packets, pkt)
	e.stations++

	metrics.IncPackets("station")
	e.logger.Debug("ground station packet added", "id", pkt.ID, "name", pkt.Name)
	return pkt.ID, nil
}

// SetCustomProperties merges props into the document packet's properties.
// Keys not named in props are kept.
func (e *Extractor) SetCustomProperties(props map[string]any) {
	doc := &e.packets[0]
	if doc.Properties == nil {
		doc.Properties = make(map[string]any, len(props))
	}
	maps.Copy(doc.Properties, props)
}

// CustomProperties returns a copy of the document packet's properties.
func (e *Extractor) CustomProperties() map[string]any {
	return maps.Clone(e.packets[0].Properties)
}

// Packets returns the document in order; index 0 is the document packet.
// The slice is a copy; packet contents are shared.
func (e *Extractor) Packets() []Packet {
	out := make([]Packet, len(e.packets))
	copy(out, e.packets)
	return out
}

// Packet looks up a ground-station packet by id.
func (e *Extractor) Packet(id string) (Packet, bool) {
	i, ok := e.byID[id]
	if !ok {
		return Packet{}, false
	}
	return e.packets[i], true
}

// Len returns the number of packets including the document packet.
func (e *Extractor) Len() int {
	return len(e.packets)
}

// MarshalJSON encodes the document as a CZML array.
func (e *Extractor) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.packets)
}

// WriteTo writes the indented CZML document to w.
func (e *Extractor) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(e.packets, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	n, err := w.Write(data)
	return int64(n), err
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidEpoch):
		return "invalid_epoch"
	case errors.Is(err, ErrInvalidCoordinates):
		return "invalid_coordinates"
	case errors.Is(err, ErrUnknownFrame):
		return "unknown_frame"
	default:
		return "propagation"
	}
}
