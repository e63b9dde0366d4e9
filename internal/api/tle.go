package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/star/czmlgo/internal/tle"
)

type metadataResponse struct {
	Source         string `json:"source"`
	FetchedAt      string `json:"fetched_at"`
	SatelliteCount int    `json:"satellite_count"`
	EpochMin       string `json:"epoch_min,omitempty"`
	EpochMax       string `json:"epoch_max,omitempty"`
}

func newMetadata(ds *tle.TLEDataset) metadataResponse {
	m := metadataResponse{
		Source:         ds.Source,
		FetchedAt:      ds.FetchedAt.UTC().Format(time.RFC3339),
		SatelliteCount: len(ds.Satellites),
	}
	if len(ds.Satellites) > 0 {
		m.EpochMin = ds.EpochRange.Min.UTC().Format(time.RFC3339)
		m.EpochMax = ds.EpochRange.Max.UTC().Format(time.RFC3339)
	}
	return m
}

// metadataHandler describes the stored dataset.
// GET /api/v1/tle/metadata
func metadataHandler(store *tle.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds := store.Get()
		if ds == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no TLE data loaded"})
			return
		}
		writeJSON(w, http.StatusOK, newMetadata(ds))
	}
}

// fetchHandler replaces the stored dataset with a fresh download.
// POST /api/v1/tle/fetch
func fetchHandler(logger *slog.Logger, cfg Config, store *tle.Store, loader Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.EnableFetch || loader == nil {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "TLE fetch disabled"})
			return
		}

		ds, err := store.Refresh(func() (*tle.TLEDataset, error) {
			return loader.Load(r.Context())
		})
		if err != nil {
			logger.Error("TLE fetch failed", "component", "api", "source_url", loader.SourceURL(), "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "TLE fetch failed"})
			return
		}

		logger.Info("TLE dataset refreshed", "component", "api", "source_url", loader.SourceURL(), "count", len(ds.Satellites))
		writeJSON(w, http.StatusOK, newMetadata(ds))
	}
}
