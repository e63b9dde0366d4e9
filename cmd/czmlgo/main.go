// Command czmlgo writes CZML documents for satellites and ground stations,
// either once from the command line or on demand over HTTP.
package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	logLevel := os.Getenv("CZMLGO_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	root := &cobra.Command{
		Use:   "czmlgo",
		Short: "Build CZML documents for orbits and ground stations",
		Long: `czmlgo samples satellite orbits over a time window and writes them,
together with ground stations, as a CZML document for Cesium.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		newExtractCmd(&logLevel),
		newServeCmd(&logLevel),
		newVersionCmd(),
	)
	return root
}

// newLogger writes JSON logs to w, which is stderr in normal use so stdout
// can carry the document.
func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l}))
}
