package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/star/czmlgo/internal/api"
	"github.com/star/czmlgo/internal/stations"
	"github.com/star/czmlgo/internal/tle"
)

func newServeCmd(logLevel *string) *cobra.Command {
	var (
		addr         string
		stationsPath string
		tleFile      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve CZML documents over HTTP",
		Long: `Runs the HTTP API. Documents are built per request over the current
TLE dataset and the ground-station catalog. Further settings are read from
CZMLGO_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), newLogger(cmd.ErrOrStderr(), *logLevel), addr, stationsPath, tleFile)
		},
	}

	defaultAddr := os.Getenv("CZMLGO_HTTP_ADDR")
	if defaultAddr == "" {
		defaultAddr = ":8080"
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&stationsPath, "stations", os.Getenv("CZMLGO_STATIONS_FILE"), "ground-station catalog (TOML)")
	cmd.Flags().StringVar(&tleFile, "tle", "", "seed the dataset from a local TLE file instead of fetching")

	return cmd
}

func runServe(ctx context.Context, logger *slog.Logger, addr, stationsPath, tleFile string) error {
	authCfg, err := loadAuthConfig(logger)
	if err != nil {
		return fmt.Errorf("invalid auth configuration: %w", err)
	}
	apiCfg := loadAPIConfig(logger)
	tleCfg := loadTLEConfig(logger)

	var catalog []stations.Station
	if stationsPath != "" {
		if catalog, err = stations.Load(stationsPath); err != nil {
			return err
		}
		logger.Info("loaded station catalog", "path", stationsPath, "count", len(catalog))
	}

	store := tle.NewStore()
	fetcher := tle.NewFetcher(tleCfg.SourceURL, logger, tleCfg.ExtraSourceURLs...)

	switch {
	case tleFile != "":
		ds, err := loadTLE(ctx, tleFile, logger)
		if err != nil {
			return err
		}
		store.Set(ds)
		logger.Info("loaded TLE data from file", "path", tleFile, "count", len(ds.Satellites))
	case tleCfg.FetchOnStart:
		// A failed first fetch leaves the server unready rather than down.
		if ds, err := store.Refresh(func() (*tle.TLEDataset, error) { return fetcher.Load(ctx) }); err != nil {
			logger.Warn("initial TLE fetch failed, starting without TLE data", "error", err)
		} else {
			logger.Info("loaded TLE data", "source_url", fetcher.SourceURL(), "count", len(ds.Satellites))
		}
	}

	var loader api.Loader
	if apiCfg.EnableFetch {
		loader = fetcher
	}
	srv := api.NewServer(addr, logger, authCfg, apiCfg, store, loader, catalog)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if tleCfg.RefreshInterval > 0 {
		go refreshLoop(ctx, logger, store, fetcher, tleCfg.RefreshInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr, "auth_enabled", authCfg.Enabled, "tle_fetch_enabled", apiCfg.EnableFetch)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen error: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// refreshLoop replaces the dataset every interval until ctx ends. Failures
// keep the previous dataset.
func refreshLoop(ctx context.Context, logger *slog.Logger, store *tle.Store, fetcher *tle.Fetcher, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ds, err := store.Refresh(func() (*tle.TLEDataset, error) { return fetcher.Load(ctx) })
			if err != nil {
				logger.Warn("scheduled TLE refresh failed", "error", err)
				continue
			}
			logger.Info("TLE dataset refreshed", "count", len(ds.Satellites))
		case <-ctx.Done():
			return
		}
	}
}
