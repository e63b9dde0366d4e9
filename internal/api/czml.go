package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/star/czmlgo/internal/czml"
	"github.com/star/czmlgo/internal/orbit"
	"github.com/star/czmlgo/internal/stations"
	"github.com/star/czmlgo/internal/tle"
)

const documentName = "czmlgo"

var errUnknownSatellite = errors.New("satellite not in dataset")

// czmlHandler builds a document for the stored dataset and the station catalog.
// GET /api/v1/czml?start=RFC3339&end=RFC3339&samples=360&norad=25544,48274&frame=INERTIAL
func czmlHandler(logger *slog.Logger, cfg Config, store *tle.Store, catalog []stations.Station) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds := store.Get()
		if ds == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no TLE data loaded"})
			return
		}

		q := r.URL.Query()
		window, err := parseWindow(q, cfg, time.Now())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		frame := strings.ToUpper(q.Get("frame"))
		if frame == "" {
			frame = czml.FrameInertial
		}
		if frame != czml.FrameInertial && frame != czml.FrameFixed {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid frame parameter, must be INERTIAL or FIXED"})
			return
		}

		entries, err := selectSatellites(ds, q.Get("norad"))
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errUnknownSatellite) {
				status = http.StatusNotFound
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}

		// CPU budget: every satellite is propagated once per sample. Divide
		// rather than multiply so huge sample counts cannot wrap around.
		if n := len(entries); n > 0 && window.Samples > cfg.MaxSamples/n {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":       fmt.Sprintf("request exceeds the sample budget (%d satellites x %d samples)", n, window.Samples),
				"max_samples": cfg.MaxSamples,
			})
			return
		}

		e, err := czml.NewExtractor(czml.Config{
			Start:     window.Start,
			End:       window.End,
			Samples:   window.Samples,
			Ellipsoid: cfg.Ellipsoid,
			MapURL:    cfg.MapURL,
			Name:      documentName,
		}, logger)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		skipped := 0
		for _, entry := range entries {
			o, err := orbit.NewSGP4(entry)
			if err == nil {
				err = e.AddOrbit(o, czml.OrbitStyle{
					ID:             strconv.Itoa(entry.NORADID),
					Name:           entry.Name,
					ReferenceFrame: frame,
				})
			}
			if err != nil {
				skipped++
				logger.Warn("satellite skipped", "component", "api", "norad_id", entry.NORADID, "error", err)
			}
		}

		if _, err := stations.AddAll(e, catalog); err != nil {
			logger.Error("station catalog rejected", "component", "api", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "station catalog invalid"})
			return
		}

		w.Header().Set("X-CZML-Skipped", strconv.Itoa(skipped))
		if err := writeJSON(w, http.StatusOK, e); err != nil {
			logger.Error("encoding czml document failed", "component", "api", "error", err)
		}
	}
}

// stationHandler returns one ground-station packet from the catalog.
// Entries without an explicit id are addressed as GS0, GS1, ... in file order.
// GET /api/v1/czml/stations/{id}?start=RFC3339&end=RFC3339
func stationHandler(logger *slog.Logger, cfg Config, catalog []stations.Station) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window, err := parseWindow(r.URL.Query(), cfg, time.Now())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		e, err := czml.NewExtractor(czml.Config{
			Start:     window.Start,
			End:       window.End,
			Samples:   window.Samples,
			Ellipsoid: cfg.Ellipsoid,
		}, logger)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if _, err := stations.AddAll(e, catalog); err != nil {
			logger.Error("station catalog rejected", "component", "api", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "station catalog invalid"})
			return
		}

		pkt, ok := e.Packet(r.PathValue("id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "station not found"})
			return
		}
		if err := writeJSON(w, http.StatusOK, pkt); err != nil {
			logger.Error("encoding station packet failed", "component", "api", "error", err)
		}
	}
}

// parseWindow reads start, end and samples. start defaults to now (whole
// seconds), end to start + cfg.DefaultDuration.
func parseWindow(q url.Values, cfg Config, now time.Time) (czml.Window, error) {
	w := czml.Window{
		Start:   now.UTC().Truncate(time.Second),
		Samples: cfg.DefaultSamples,
	}

	if v := q.Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return w, errors.New("invalid start parameter, must be RFC 3339")
		}
		w.Start = t.UTC()
	}

	w.End = w.Start.Add(cfg.DefaultDuration)
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return w, errors.New("invalid end parameter, must be RFC 3339")
		}
		w.End = t.UTC()
	}

	if v := q.Get("samples"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return w, errors.New("invalid samples parameter, must be a positive integer")
		}
		w.Samples = n
	}

	if err := w.Validate(); err != nil {
		return w, err
	}
	return w, nil
}

// selectSatellites resolves a comma-separated NORAD list; empty selects all.
func selectSatellites(ds *tle.TLEDataset, param string) ([]tle.TLEEntry, error) {
	if param == "" {
		return ds.Satellites, nil
	}

	var out []tle.TLEEntry
	for _, field := range strings.Split(param, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid norad parameter %q", field)
		}
		entry, ok := ds.Find(id)
		if !ok {
			return nil, fmt.Errorf("%w: %d", errUnknownSatellite, id)
		}
		out = append(out, entry)
	}
	return out, nil
}

// writeJSON encodes v before writing any header, so an encoding failure
// becomes a 500 instead of a truncated body. The error is returned for
// logging.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"encoding response failed"}` + "\n"))
		return err
	}

	w.WriteHeader(status)
	_, err = w.Write(append(data, '\n'))
	return err
}
