// Package stations loads ground-station catalogs from TOML files.
//
// A catalog is a list of [[station]] tables:
//
//	[[station]]
//	id = "KIR"
//	name = "Kiruna"
//	latitude = 67.857
//	longitude = 20.964
//	height = 402
//	label_color = [0, 255, 255, 255]
package stations

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/star/czmlgo/internal/czml"
	"github.com/star/czmlgo/internal/transform"
)

// Angle units accepted in the unit field.
const (
	UnitDegrees = "deg"
	UnitRadians = "rad"
)

// ErrInvalidStation is returned for a catalog entry that cannot be placed.
var ErrInvalidStation = errors.New("invalid station")

// Station is one catalog entry.
type Station struct {
	ID          string  `toml:"id"`
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
	Latitude    float64 `toml:"latitude"`
	Longitude   float64 `toml:"longitude"`
	Height      float64 `toml:"height"` // meters above the ellipsoid
	Unit        string  `toml:"unit"`   // "deg" (default) or "rad"
	LabelText   string  `toml:"label_text"`
	LabelColor  []int   `toml:"label_color"`
	HideLabel   bool    `toml:"hide_label"`
	Billboard   string  `toml:"billboard"`
}

type catalog struct {
	Stations []Station `toml:"station"`
}

// Load reads a catalog file.
func Load(path string) ([]Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open station catalog: %w", err)
	}
	defer f.Close()

	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// Parse decodes and validates a catalog. Unknown keys are rejected.
func Parse(r io.Reader) ([]Station, error) {
	var c catalog
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode station catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Stations))
	for i, s := range c.Stations {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("station %d: %w", i, err)
		}
		if s.ID == "" {
			continue
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("station %d: %w: duplicate id %q", i, ErrInvalidStation, s.ID)
		}
		seen[s.ID] = true
	}
	return c.Stations, nil
}

func (s Station) validate() error {
	switch s.Unit {
	case "", UnitDegrees, UnitRadians:
	default:
		return fmt.Errorf("%w: unit %q, want %q or %q", ErrInvalidStation, s.Unit, UnitDegrees, UnitRadians)
	}

	g := s.Geodetic()
	if !g.IsFinite() {
		return fmt.Errorf("%w: non-finite coordinates", ErrInvalidStation)
	}
	if math.Abs(g.Lat.Degrees()) > 90 {
		return fmt.Errorf("%w: latitude %.4f° out of range", ErrInvalidStation, g.Lat.Degrees())
	}

	if s.LabelColor != nil {
		if len(s.LabelColor) != 4 {
			return fmt.Errorf("%w: label_color needs 4 components, got %d", ErrInvalidStation, len(s.LabelColor))
		}
		for _, c := range s.LabelColor {
			if c < 0 || c > 255 {
				return fmt.Errorf("%w: label_color component %d out of 0-255", ErrInvalidStation, c)
			}
		}
	}
	return nil
}

// Geodetic returns the station coordinates with units applied.
func (s Station) Geodetic() transform.Geodetic {
	if s.Unit == UnitRadians {
		return transform.Geodetic{
			Lat:    transform.Radians(s.Latitude),
			Lon:    transform.Radians(s.Longitude),
			Height: s.Height,
		}
	}
	return transform.Geodetic{
		Lat:    transform.Degrees(s.Latitude),
		Lon:    transform.Degrees(s.Longitude),
		Height: s.Height,
	}
}

// Style maps the catalog entry to packet styling.
func (s Station) Style() czml.StationStyle {
	style := czml.StationStyle{
		ID:             s.ID,
		Name:           s.Name,
		Description:    s.Description,
		LabelText:      s.LabelText,
		HideLabel:      s.HideLabel,
		BillboardImage: s.Billboard,
	}
	if len(s.LabelColor) == 4 {
		c := s.LabelColor
		style.LabelFillColor = czml.Colour(c[0], c[1], c[2], c[3])
	}
	return style
}

// AddAll appends every station to e and returns the assigned ids.
func AddAll(e *czml.Extractor, list []Station) ([]string, error) {
	ids := make([]string, 0, len(list))
	for _, s := range list {
		id, err := e.AddGroundStation(s.Geodetic(), s.Style())
		if err != nil {
			return ids, fmt.Errorf("add station %q: %w", s.Name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
