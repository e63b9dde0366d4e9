package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	packetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "czmlgo_packets_total",
			Help: "Total number of CZML packets appended, by kind.",
		},
		[]string{"kind"},
	)

	samplesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "czmlgo_samples_total",
			Help: "Total number of propagated orbit samples.",
		},
	)

	buildErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "czmlgo_build_errors_total",
			Help: "Total number of rejected add operations, by reason.",
		},
		[]string{"reason"},
	)

	orbitBuildSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "czmlgo_orbit_build_seconds",
			Help:    "Time to sample and assemble one orbit packet.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "czmlgo_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "czmlgo_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(packetsTotal, samplesTotal, buildErrorsTotal, orbitBuildSeconds)
	prometheus.MustRegister(httpRequestsTotal, httpDurationSeconds)
}

// IncPackets counts one appended packet of the given kind ("orbit", "station").
func IncPackets(kind string) {
	packetsTotal.WithLabelValues(kind).Inc()
}

// AddSamples counts propagated samples.
func AddSamples(n int) {
	samplesTotal.Add(float64(n))
}

// IncBuildErrors counts one rejected add operation.
func IncBuildErrors(reason string) {
	buildErrorsTotal.WithLabelValues(reason).Inc()
}

// ObserveOrbitBuild records how long one orbit packet took to build.
func ObserveOrbitBuild(d time.Duration) {
	orbitBuildSeconds.Observe(d.Seconds())
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// knownRoutes are reported as their own label; anything else is "other".
var knownRoutes = map[string]bool{
	"/healthz":             true,
	"/readyz":              true,
	"/metrics":             true,
	"/api/v1/czml":         true,
	"/api/v1/tle/metadata": true,
	"/api/v1/tle/fetch":    true,
}

const stationPrefix = "/api/v1/czml/stations/"

// normalizeRoute bounds path label cardinality.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	if rest, ok := strings.CutPrefix(path, stationPrefix); ok && rest != "" && !strings.Contains(rest, "/") {
		return stationPrefix + "{id}"
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		path := normalizeRoute(r.URL.Path)
		httpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}
