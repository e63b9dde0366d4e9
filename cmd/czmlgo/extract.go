package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/star/czmlgo/internal/czml"
	"github.com/star/czmlgo/internal/orbit"
	"github.com/star/czmlgo/internal/stations"
	"github.com/star/czmlgo/internal/tle"
)

type extractOptions struct {
	tleSource string
	demo      bool
	norad     []int
	start     string
	end       string
	duration  time.Duration
	samples   int
	stations  string
	ellipsoid string
	mapURL    string
	frame     string
	name      string
	out       string
}

// styledOrbit is an orbit queued for the document with its packet style.
type styledOrbit struct {
	orbit orbit.Orbit
	style czml.OrbitStyle
}

func newExtractCmd(logLevel *string) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Write a CZML document from TLEs or the built-in example orbits",
		Long: `Samples every selected orbit over [start, end) and writes one CZML
document. Orbits come from a TLE file or URL (--tle) and/or the ISS and
Molniya example orbits (--demo). Ground stations come from a TOML catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(cmd, opts, newLogger(cmd.ErrOrStderr(), *logLevel))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.tleSource, "tle", "", "TLE file path or http(s) URL")
	f.BoolVar(&opts.demo, "demo", false, "include the ISS and Molniya example orbits")
	f.IntSliceVar(&opts.norad, "norad", nil, "only these NORAD catalog numbers from --tle")
	f.StringVar(&opts.start, "start", "", "window start, RFC 3339 (default: latest TLE epoch, or the ISS epoch with --demo)")
	f.StringVar(&opts.end, "end", "", "window end, RFC 3339 (overrides --duration)")
	f.DurationVar(&opts.duration, "duration", 0, "window length (default 6h, or one Molniya period with --demo)")
	f.IntVar(&opts.samples, "samples", 360, "samples per orbit")
	f.StringVar(&opts.stations, "stations", "", "ground-station catalog (TOML)")
	f.StringVar(&opts.ellipsoid, "ellipsoid", "", "custom attractor radii rx,ry,rz in meters")
	f.StringVar(&opts.mapURL, "map-url", "", "imagery URL for the custom attractor")
	f.StringVar(&opts.frame, "frame", czml.FrameInertial, "orbit reference frame (INERTIAL or FIXED)")
	f.StringVar(&opts.name, "name", "", "document name")
	f.StringVarP(&opts.out, "out", "o", "-", "output file, - for stdout")

	return cmd
}

func runExtract(cmd *cobra.Command, opts *extractOptions, logger *slog.Logger) error {
	if opts.tleSource == "" && !opts.demo {
		return errors.New("nothing to extract: pass --tle or --demo")
	}

	var (
		orbits       []styledOrbit
		defaultStart time.Time
		defaultSpan  = 6 * time.Hour
	)
	frame := strings.ToUpper(opts.frame)

	if opts.demo {
		iss, molniya := orbit.ISS(), orbit.Molniya()
		orbits = append(orbits,
			styledOrbit{molniya, czml.OrbitStyle{Name: "Molniya", ReferenceFrame: frame}},
			styledOrbit{iss, czml.OrbitStyle{Name: "ISS", ReferenceFrame: frame}},
		)
		defaultStart = iss.Epoch()
		defaultSpan = molniya.Period()
	}

	if opts.tleSource != "" {
		ds, err := loadTLE(cmd.Context(), opts.tleSource, logger)
		if err != nil {
			return err
		}
		for _, entry := range ds.Satellites {
			if len(opts.norad) > 0 && !slices.Contains(opts.norad, entry.NORADID) {
				continue
			}
			o, err := orbit.NewSGP4(entry)
			if err != nil {
				logger.Warn("skipping TLE", "norad_id", entry.NORADID, "error", err)
				continue
			}
			orbits = append(orbits, styledOrbit{o, czml.OrbitStyle{
				ID:             fmt.Sprint(entry.NORADID),
				Name:           entry.Name,
				ReferenceFrame: frame,
			}})
		}
		if defaultStart.IsZero() {
			defaultStart = ds.EpochRange.Max
		}
	}

	window, err := extractWindow(opts, defaultStart, defaultSpan)
	if err != nil {
		return err
	}

	cfg := czml.Config{
		Start:   window.Start,
		End:     window.End,
		Samples: window.Samples,
		MapURL:  opts.mapURL,
		Name:    opts.name,
	}
	if opts.ellipsoid != "" {
		if cfg.Ellipsoid, err = parseEllipsoid(opts.ellipsoid); err != nil {
			return err
		}
	}

	e, err := czml.NewExtractor(cfg, logger)
	if err != nil {
		return err
	}

	added := 0
	for _, so := range orbits {
		if err := e.AddOrbit(so.orbit, so.style); err != nil {
			if errors.Is(err, czml.ErrUnknownFrame) {
				return err
			}
			logger.Warn("orbit skipped", "name", so.style.Name, "error", err)
			continue
		}
		added++
	}

	if opts.stations != "" {
		catalog, err := stations.Load(opts.stations)
		if err != nil {
			return err
		}
		if _, err := stations.AddAll(e, catalog); err != nil {
			return err
		}
	}

	if err := writeDocument(cmd.OutOrStdout(), opts.out, e); err != nil {
		return err
	}

	logger.Info("czml written",
		"out", opts.out,
		"packets", e.Len(),
		"orbits", added,
		"orbits_skipped", len(orbits)-added,
		"window", window.Interval(),
	)
	return nil
}

func extractWindow(opts *extractOptions, defaultStart time.Time, defaultSpan time.Duration) (czml.Window, error) {
	w := czml.Window{Start: defaultStart, Samples: opts.samples}

	if opts.start != "" {
		t, err := time.Parse(time.RFC3339, opts.start)
		if err != nil {
			return w, fmt.Errorf("invalid --start: %w", err)
		}
		w.Start = t
	}

	switch {
	case opts.end != "":
		t, err := time.Parse(time.RFC3339, opts.end)
		if err != nil {
			return w, fmt.Errorf("invalid --end: %w", err)
		}
		w.End = t
	case opts.duration > 0:
		w.End = w.Start.Add(opts.duration)
	default:
		w.End = w.Start.Add(defaultSpan)
	}

	return w, w.Validate()
}

// loadTLE reads a dataset from an http(s) URL or a local file.
func loadTLE(ctx context.Context, source string, logger *slog.Logger) (*tle.TLEDataset, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return tle.NewFetcher(source, logger).Load(ctx)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open TLE file: %w", err)
	}
	defer f.Close()

	entries, err := tle.Parse(f, logger)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: no TLE entries", source)
	}
	return tle.NewDataset(source, time.Now(), entries), nil
}

func writeDocument(stdout io.Writer, path string, e *czml.Extractor) error {
	if path == "-" || path == "" {
		_, err := e.WriteTo(stdout)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if _, err := e.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
