package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/star/czmlgo/internal/transform"
)

const issTLE = `ISS (ZARYA)
1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005
2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09
`

const catalogTOML = `
[[station]]
name = "GS"
latitude = 32
longitude = 62

[[station]]
id = "MAD"
name = "Madrid"
latitude = 40.43
longitude = -4.25
`

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionCmd(t *testing.T) {
	original := version
	version = "test-version-1.0.0"
	defer func() { version = original }()

	out, err := run(t, "version")
	assert.NoError(t, err)
	assert.Contains(t, out, "czmlgo version test-version-1.0.0")
}

func TestExtractDemo(t *testing.T) {
	out, err := run(t, "extract", "--demo", "--samples", "10", "--ellipsoid", "6373100,6373100,6373100")
	require.NoError(t, err)

	var doc []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc, 3)

	assert.Equal(t, "document", doc[0]["id"])
	props := doc[0]["properties"].(map[string]any)
	assert.Equal(t, true, props["custom_attractor"])

	assert.Equal(t, "0", doc[1]["id"])
	assert.Equal(t, "Molniya", doc[1]["name"])
	assert.Equal(t, "1", doc[2]["id"])
	assert.Equal(t, "ISS", doc[2]["name"])
	assert.Equal(t, "2013-03-18T12:00:00.000/2013-03-18T23:59:35.108", doc[2]["availability"])
	assert.Len(t, doc[2]["position"].(map[string]any)["cartesian"], 40)
}

func TestExtractTLEFileWithStations(t *testing.T) {
	tlePath := writeFile(t, "stations.tle", issTLE)
	catalogPath := writeFile(t, "stations.toml", catalogTOML)
	outPath := filepath.Join(t.TempDir(), "out.czml")

	_, err := run(t, "extract",
		"--tle", tlePath,
		"--stations", catalogPath,
		"--duration", "90m",
		"--samples", "30",
		"--frame", "fixed",
		"--out", outPath,
	)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var doc []map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc, 4)

	assert.Equal(t, "25544", doc[1]["id"])
	position := doc[1]["position"].(map[string]any)
	assert.Equal(t, "FIXED", position["referenceFrame"])
	// Default start is the latest TLE epoch.
	assert.Equal(t, "2024-04-09T12:00:00.000", position["epoch"])
	assert.Equal(t, "2024-04-09T12:00:00.000/2024-04-09T13:30:00.000", doc[1]["availability"])

	assert.Equal(t, "GS0", doc[2]["id"])
	assert.Equal(t, "MAD", doc[3]["id"])
}

func TestExtractNoradFilter(t *testing.T) {
	tlePath := writeFile(t, "stations.tle", issTLE)

	out, err := run(t, "extract", "--tle", tlePath, "--norad", "99999", "--samples", "2")
	require.NoError(t, err)

	var doc []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc, 1)
}

func TestExtractErrors(t *testing.T) {
	tlePath := writeFile(t, "stations.tle", issTLE)

	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{"extract"}},
		{"missing tle file", []string{"extract", "--tle", filepath.Join(t.TempDir(), "none.tle")}},
		{"bad start", []string{"extract", "--demo", "--start", "noon"}},
		{"end before start", []string{"extract", "--demo", "--start", "2013-03-18T12:00:00Z", "--end", "2013-03-18T11:00:00Z"}},
		{"zero samples", []string{"extract", "--demo", "--samples", "0"}},
		{"bad ellipsoid", []string{"extract", "--demo", "--ellipsoid", "1,2"}},
		{"bad frame", []string{"extract", "--tle", tlePath, "--frame", "ICRF"}},
		{"missing catalog", []string{"extract", "--demo", "--stations", filepath.Join(t.TempDir(), "none.toml")}},
		{"positional args", []string{"extract", "--demo", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseEllipsoid(t *testing.T) {
	tests := []struct {
		in      string
		want    transform.Ellipsoid
		wantErr bool
	}{
		{"6378137,6378137,6356752.3", transform.Ellipsoid{Rx: 6378137, Ry: 6378137, Rz: 6356752.3}, false},
		{" 1, 2 , 3 ", transform.Ellipsoid{Rx: 1, Ry: 2, Rz: 3}, false},
		{"1,2", transform.Ellipsoid{}, true},
		{"1,2,x", transform.Ellipsoid{}, true},
		{"1,-2,3", transform.Ellipsoid{}, true},
		{"1,NaN,3", transform.Ellipsoid{}, true},
	}
	for _, tt := range tests {
		got, err := parseEllipsoid(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestLoadAPIConfig(t *testing.T) {
	t.Setenv("CZMLGO_MAX_SAMPLES", "5000")
	t.Setenv("CZMLGO_DEFAULT_DURATION", "90m")
	t.Setenv("CZMLGO_DEFAULT_SAMPLES", "-3")
	t.Setenv("CZMLGO_ENABLE_TLE_FETCH", "false")
	t.Setenv("CZMLGO_ELLIPSOID", "1,2,3")

	cfg := loadAPIConfig(newLogger(io.Discard, "error"))
	assert.Equal(t, 5000, cfg.MaxSamples)
	assert.Equal(t, 90*time.Minute, cfg.DefaultDuration)
	assert.Equal(t, 360, cfg.DefaultSamples, "invalid value falls back to the default")
	assert.False(t, cfg.EnableFetch)
	assert.Equal(t, transform.Ellipsoid{Rx: 1, Ry: 2, Rz: 3}, cfg.Ellipsoid)
}

func TestLoadAuthConfig(t *testing.T) {
	logger := newLogger(io.Discard, "error")

	t.Setenv("CZMLGO_AUTH_ENABLED", "true")
	t.Setenv("CZMLGO_AUTH_TOKEN", "")
	_, err := loadAuthConfig(logger)
	assert.Error(t, err, "token is required when auth is enabled")

	t.Setenv("CZMLGO_AUTH_TOKEN", "s3cret")
	cfg, err := loadAuthConfig(logger)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "s3cret", cfg.Token)

	t.Setenv("CZMLGO_AUTH_ENABLED", "maybe")
	_, err = loadAuthConfig(logger)
	assert.Error(t, err)
}

func TestLoadTLEConfig(t *testing.T) {
	t.Setenv("CZMLGO_TLE_EXTRA_URLS", " https://a.example/tle , ,https://b.example/tle")
	t.Setenv("CZMLGO_TLE_REFRESH_INTERVAL", "1h")

	cfg := loadTLEConfig(newLogger(io.Discard, "error"))
	assert.Equal(t, []string{"https://a.example/tle", "https://b.example/tle"}, cfg.ExtraSourceURLs)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.True(t, cfg.FetchOnStart)
}
