package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/star/czmlgo/internal/api"
	"github.com/star/czmlgo/internal/auth"
	"github.com/star/czmlgo/internal/transform"
)

// tleConfig controls where the server gets its TLE data.
type tleConfig struct {
	SourceURL       string
	ExtraSourceURLs []string
	FetchOnStart    bool
	RefreshInterval time.Duration // 0 disables periodic refresh
}

func loadAuthConfig(logger *slog.Logger) (auth.Config, error) {
	cfg := auth.Config{}

	enabledStr := os.Getenv("CZMLGO_AUTH_ENABLED")
	if enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			return cfg, errors.New("CZMLGO_AUTH_ENABLED must be a boolean value (true/false/1/0)")
		}
		cfg.Enabled = enabled
	}

	if cfg.Enabled {
		cfg.Token = os.Getenv("CZMLGO_AUTH_TOKEN")
		if cfg.Token == "" {
			return cfg, errors.New("CZMLGO_AUTH_TOKEN is required when auth is enabled")
		}
		logger.Info("auth enabled")
	}

	return cfg, nil
}

func loadAPIConfig(logger *slog.Logger) api.Config {
	cfg := api.DefaultConfig()

	if v := os.Getenv("CZMLGO_ENABLE_TLE_FETCH"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid CZMLGO_ENABLE_TLE_FETCH value, using default", "value", v, "default", cfg.EnableFetch)
		} else {
			cfg.EnableFetch = enabled
		}
	}

	if v := os.Getenv("CZMLGO_MAX_SAMPLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid CZMLGO_MAX_SAMPLES value, using default", "value", v, "default", cfg.MaxSamples)
		} else {
			cfg.MaxSamples = n
		}
	}

	if v := os.Getenv("CZMLGO_DEFAULT_SAMPLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid CZMLGO_DEFAULT_SAMPLES value, using default", "value", v, "default", cfg.DefaultSamples)
		} else {
			cfg.DefaultSamples = n
		}
	}

	if v := os.Getenv("CZMLGO_DEFAULT_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			logger.Warn("invalid CZMLGO_DEFAULT_DURATION value, using default", "value", v, "default", cfg.DefaultDuration.String())
		} else {
			cfg.DefaultDuration = d
		}
	}

	if v := os.Getenv("CZMLGO_TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid CZMLGO_TRUST_PROXY value, defaulting to false", "value", v)
		} else {
			cfg.TrustProxy = trust
		}
	}

	if v := os.Getenv("CZMLGO_ELLIPSOID"); v != "" {
		e, err := parseEllipsoid(v)
		if err != nil {
			logger.Warn("invalid CZMLGO_ELLIPSOID value, using WGS84", "value", v, "error", err)
		} else {
			cfg.Ellipsoid = e
		}
	}

	cfg.MapURL = os.Getenv("CZMLGO_MAP_URL")

	logger.Info("api config",
		"enable_fetch", cfg.EnableFetch,
		"max_samples", cfg.MaxSamples,
		"default_samples", cfg.DefaultSamples,
		"default_duration_seconds", cfg.DefaultDuration.Seconds(),
		"trust_proxy", cfg.TrustProxy,
	)

	return cfg
}

func loadTLEConfig(logger *slog.Logger) tleConfig {
	cfg := tleConfig{
		FetchOnStart: true,
		ExtraSourceURLs: []string{
			// ISS (NORAD 25544), kept even if the main group changes.
			"https://celestrak.org/NORAD/elements/gp.php?CATNR=25544&FORMAT=tle",
		},
	}

	if v := os.Getenv("CZMLGO_TLE_SOURCE_URL"); v != "" {
		cfg.SourceURL = v
	}

	if v, ok := os.LookupEnv("CZMLGO_TLE_EXTRA_URLS"); ok {
		var urls []string
		for _, u := range strings.Split(v, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				urls = append(urls, u)
			}
		}
		cfg.ExtraSourceURLs = urls
	}

	if v := os.Getenv("CZMLGO_TLE_FETCH_ON_START"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid CZMLGO_TLE_FETCH_ON_START value, using default", "value", v, "default", cfg.FetchOnStart)
		} else {
			cfg.FetchOnStart = enabled
		}
	}

	if v := os.Getenv("CZMLGO_TLE_REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			logger.Warn("invalid CZMLGO_TLE_REFRESH_INTERVAL value, refresh disabled", "value", v)
		} else {
			cfg.RefreshInterval = d
		}
	}

	logger.Info("TLE config",
		"source_url", cfg.SourceURL,
		"extra_urls", cfg.ExtraSourceURLs,
		"fetch_on_start", cfg.FetchOnStart,
		"refresh_interval_seconds", cfg.RefreshInterval.Seconds(),
	)

	return cfg
}

// parseEllipsoid reads "rx,ry,rz" in meters.
func parseEllipsoid(s string) (transform.Ellipsoid, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return transform.Ellipsoid{}, fmt.Errorf("ellipsoid %q: want rx,ry,rz", s)
	}
	var r [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || !(v > 0) || math.IsInf(v, 0) {
			return transform.Ellipsoid{}, fmt.Errorf("ellipsoid %q: radius %q must be a positive number", s, p)
		}
		r[i] = v
	}
	return transform.Ellipsoid{Rx: r[0], Ry: r[1], Rz: r[2]}, nil
}
