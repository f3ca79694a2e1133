// Package logging provides structured logging for sonosws.
//
// It wraps Go's standard log/slog so every part of the daemon logs the same
// way: JSON (or text) records tagged with the service name and version.
//
// # Features
//
//   - JSON output for machine ingestion, text for interactive use
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// Logging is configured via the LoggingConfig in config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("player connected", "playerId", id)
//	logger.Error("discovery failed", "error", err)
//
// The protocol packages (transport, api, client) accept any logger through
// their own small Logger interfaces; *Logger satisfies all of them.
//
// # Security
//
// Never log secrets or API keys. Log a truncated prefix when an identifier
// is needed:
//
//	logger.Info("API key used", "key_prefix", key[:8]+"...")
package logging
