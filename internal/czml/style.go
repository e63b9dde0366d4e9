package czml

// RGBA is a colour as red, green, blue, alpha in 0-255.
type RGBA [4]int

// Colour returns a pointer for the optional colour fields of a style.
func Colour(r, g, b, a int) *RGBA {
	return &RGBA{r, g, b, a}
}

// colourOr returns *c, or def when c is nil.
func colourOr(c *RGBA, def RGBA) RGBA {
	if c == nil {
		return def
	}
	return *c
}

// Defaults applied to unset style fields.
const (
	DefaultLabelFont      = "11pt Lucida Console"
	DefaultPathWidth      = 1
	DefaultPathResolution = 120
	DefaultStationName    = "Ground Station"
)

var (
	DefaultLabelFillColor    = RGBA{255, 255, 0, 255}
	DefaultLabelOutlineColor = RGBA{0, 0, 0, 255}
	DefaultPathColor         = RGBA{255, 255, 255, 255}
)

// OrbitStyle configures one orbit packet. Zero values and nil colours take
// the defaults above; labels and paths are shown unless hidden explicitly.
type OrbitStyle struct {
	ID          string // default: insertion counter ("0", "1", ...)
	Name        string
	Description string

	LabelText         string // default: Name, then ID
	LabelFont         string
	LabelFillColor    *RGBA
	LabelOutlineColor *RGBA
	HideLabel         bool

	HidePath       bool
	PathWidth      float64
	PathColor      *RGBA
	PathResolution float64

	ReferenceFrame string // FrameInertial (default) or FrameFixed
}

// StationStyle configures one ground-station packet.
type StationStyle struct {
	ID          string // default: "GS<n>"
	Name        string // default: DefaultStationName
	Description string

	LabelText         string // default: Name
	LabelFont         string
	LabelFillColor    *RGBA
	LabelOutlineColor *RGBA
	HideLabel         bool

	BillboardImage string // URL or data URI; no billboard when empty
}

func (s OrbitStyle) label(id string) *Label {
	text := s.LabelText
	if text == "" {
		text = s.Name
	}
	if text == "" {
		text = id
	}
	return newLabel(text, s.LabelFont, s.LabelFillColor, s.LabelOutlineColor, !s.HideLabel)
}

func (s OrbitStyle) path() *Path {
	width := s.PathWidth
	if width <= 0 {
		width = DefaultPathWidth
	}
	res := s.PathResolution
	if res <= 0 {
		res = DefaultPathResolution
	}
	return &Path{
		Show:       Boolean{Boolean: !s.HidePath},
		Width:      width,
		Resolution: res,
		Material: &Material{
			SolidColor: &SolidColor{Color: Color{RGBA: colourOr(s.PathColor, DefaultPathColor)}},
		},
	}
}

func (s StationStyle) label(name string) *Label {
	text := s.LabelText
	if text == "" {
		text = name
	}
	return newLabel(text, s.LabelFont, s.LabelFillColor, s.LabelOutlineColor, !s.HideLabel)
}

func newLabel(text, font string, fill, outline *RGBA, show bool) *Label {
	if font == "" {
		font = DefaultLabelFont
	}
	return &Label{
		Text:         text,
		Font:         font,
		FillColor:    &Color{RGBA: colourOr(fill, DefaultLabelFillColor)},
		OutlineColor: &Color{RGBA: colourOr(outline, DefaultLabelOutlineColor)},
		OutlineWidth: 2,
		PixelOffset:  &Cartesian2{Cartesian2: [2]float64{12, 0}},
		Show:         show,
	}
}
