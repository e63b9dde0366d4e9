package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/star/czmlgo/internal/auth"
	"github.com/star/czmlgo/internal/health"
	"github.com/star/czmlgo/internal/httputil"
	"github.com/star/czmlgo/internal/metrics"
	"github.com/star/czmlgo/internal/stations"
	"github.com/star/czmlgo/internal/tle"
)

// Loader produces a fresh TLE dataset. *tle.Fetcher implements it.
type Loader interface {
	Load(ctx context.Context) (*tle.TLEDataset, error)
	SourceURL() string
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server.
// loader may be nil, in which case POST /api/v1/tle/fetch answers 403.
func NewServer(addr string, logger *slog.Logger, authCfg auth.Config, cfg Config, store *tle.Store, loader Loader, catalog []stations.Station) *Server {
	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(func() bool { return store.Get() != nil }))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/czml", czmlHandler(logger, cfg, store, catalog))
	mux.HandleFunc("GET /api/v1/czml/stations/{id}", stationHandler(logger, cfg, catalog))
	mux.HandleFunc("GET /api/v1/tle/metadata", metadataHandler(store))
	mux.HandleFunc("POST /api/v1/tle/fetch", fetchHandler(logger, cfg, store, loader))

	// Build middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(authCfg)(handler)
	handler = loggingMiddleware(logger, cfg.TrustProxy)(handler)
	handler = metrics.Middleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// requestID reuses a well-formed X-Request-ID from the client or mints one.
func requestID(r *http.Request) string {
	if v := r.Header.Get("X-Request-ID"); v != "" {
		if _, err := uuid.Parse(v); err == nil {
			return v
		}
	}
	return uuid.NewString()
}

func loggingMiddleware(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := requestID(r)
			w.Header().Set("X-Request-ID", id)
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", httputil.ClientIP(r, trustProxy),
			)
		})
	}
}
