package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/soundmesh/sonosws/internal/infrastructure/config"
)

// Logger wraps slog.Logger so every record carries the service identity.
//
// All log lines include a "service" and "version" attribute, which keeps
// sonosws distinguishable when its output is aggregated with the other
// home-automation daemons on the same host.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from the logging config section.
//
// Format selects the handler: "text" for human-readable output when watching
// a player session interactively, anything else JSON for machine ingestion.
// Output selects stdout or stderr. Level filters records below the
// configured threshold.
//
// Parameters:
//   - cfg: Logging configuration from config.yaml
//   - version: Application version stamped onto every record
//
// Returns:
//   - *Logger: Configured logger ready for use
func New(cfg config.LoggingConfig, version string) *Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stderr":
		output = os.Stderr
	default:
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, opts)
	default:
		handler = slog.NewJSONHandler(output, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", "sonosws"),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// parseLevel maps a config level string to slog.Level.
//
// Accepts debug, info, warn/warning and error, case-insensitively.
// Anything else falls back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child Logger carrying additional default attributes.
//
// Used to tag a subsystem once instead of on every call:
//
//	wsLog := logger.With("component", "transport")
//	wsLog.Debug("ping sent") // includes component=transport
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default returns a logger usable before the config file has been loaded:
// JSON to stdout at info level, version "dev". Early startup only; run
// replaces it as soon as Load succeeds.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
