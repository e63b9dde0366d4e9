package api

import (
	"time"

	"github.com/star/czmlgo/internal/transform"
)

// Config holds the document-building limits and defaults of the API.
type Config struct {
	EnableFetch     bool          // allow POST /api/v1/tle/fetch
	MaxSamples      int           // samples x satellites budget per request
	DefaultSamples  int           // samples when the query omits them
	DefaultDuration time.Duration // window length when the query omits end
	TrustProxy      bool          // read client IPs from proxy headers

	Ellipsoid transform.Ellipsoid // zero means WGS84
	MapURL    string
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		EnableFetch:     true,
		MaxSamples:      100000,
		DefaultSamples:  360,
		DefaultDuration: 6 * time.Hour,
	}
}
