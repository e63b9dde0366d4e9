// Package czml assembles CZML documents from sampled orbits and ground
// stations. A document is a JSON array of packets; packet 0 is always the
// "document" packet carrying global settings.
package czml

// TimeLayout formats every instant the package writes, e.g. availability
// intervals "2013-03-18T12:00:00.000/2013-03-18T23:59:35.108".
const TimeLayout = "2006-01-02T15:04:05.000"

// Reference frames understood by Cesium.
const (
	FrameInertial = "INERTIAL"
	FrameFixed    = "FIXED"
)

// Packet is one CZML entity.
type Packet struct {
	ID           string         `json:"id"`
	Name         string         `json:"name,omitempty"`
	Description  string         `json:"description,omitempty"`
	Version      string         `json:"version,omitempty"`
	Clock        *Clock         `json:"clock,omitempty"`
	Availability string         `json:"availability,omitempty"`
	Position     *Position      `json:"position,omitempty"`
	Label        *Label         `json:"label,omitempty"`
	Path         *Path          `json:"path,omitempty"`
	Billboard    *Billboard     `json:"billboard,omitempty"`
	Properties   map[string]any `json:"properties,omitempty"`
}

// Clock drives the viewer's timeline.
type Clock struct {
	Interval    string  `json:"interval"`
	CurrentTime string  `json:"currentTime"`
	Multiplier  float64 `json:"multiplier"`
	Range       string  `json:"range"`
	Step        string  `json:"step"`
}

// Position is either a time-tagged track (Epoch set, Cartesian holds
// t,x,y,z groups) or a static point (Cartesian holds x,y,z).
type Position struct {
	InterpolationAlgorithm string    `json:"interpolationAlgorithm,omitempty"`
	InterpolationDegree    int       `json:"interpolationDegree,omitempty"`
	ReferenceFrame         string    `json:"referenceFrame,omitempty"`
	Epoch                  string    `json:"epoch,omitempty"`
	Cartesian              []float64 `json:"cartesian"`
}

// Color is an RGBA colour property.
type Color struct {
	RGBA RGBA `json:"rgba"`
}

// Label draws text next to an entity.
type Label struct {
	Text         string      `json:"text"`
	Font         string      `json:"font,omitempty"`
	FillColor    *Color      `json:"fillColor,omitempty"`
	OutlineColor *Color      `json:"outlineColor,omitempty"`
	OutlineWidth float64     `json:"outlineWidth,omitempty"`
	PixelOffset  *Cartesian2 `json:"pixelOffset,omitempty"`
	Show         bool        `json:"show"`
}

// Cartesian2 is a screen-space offset in pixels.
type Cartesian2 struct {
	Cartesian2 [2]float64 `json:"cartesian2"`
}

// Boolean wraps a boolean property value.
type Boolean struct {
	Boolean bool `json:"boolean"`
}

// Path draws the trail of a time-dynamic position.
type Path struct {
	Show       Boolean   `json:"show"`
	Width      float64   `json:"width,omitempty"`
	Resolution float64   `json:"resolution,omitempty"`
	Material   *Material `json:"material,omitempty"`
}

// Material is a surface material; only solid colours are emitted.
type Material struct {
	SolidColor *SolidColor `json:"solidColor,omitempty"`
}

// SolidColor is a single-colour material.
type SolidColor struct {
	Color Color `json:"color"`
}

// Billboard draws an image at an entity's position.
type Billboard struct {
	Image string  `json:"image"`
	Scale float64 `json:"scale,omitempty"`
	Show  bool    `json:"show"`
}

// ArrayValue wraps a numeric array property, e.g. ellipsoid radii.
type ArrayValue struct {
	Array []float64 `json:"array"`
}
