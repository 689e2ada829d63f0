// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	level := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// ParseLevel converts a LogLevel (or a LOG_LEVEL value) to zerolog.Level.
// Unknown values fall back to info.
func ParseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(string(level))) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache operations (hit, miss, in-flight join, key, entry age)
//   - Each page fetched during a walk
//   - Each batch of links resolved
//
// Info: Normal operation events
//   - Run summaries (combos found, elapsed time)
//   - Server startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Failed link resolutions (the batch fails after its siblings finish)
//   - Non-2xx SWAPI responses
//
// Error: Error conditions requiring attention
//   - Failed runs and requests the caller cannot recover from
//   - Configuration errors
//
// Context Fields:
//   - component: Emitting component (swapi-client, swapi-cache, combo, ...)
//   - endpoint: SWAPI resource path
//   - status: HTTP status code
//   - error_class: Error classification (client, server, network, decode)
//   - key: Cache key
//   - page: Page link being walked
//   - items: Number of items on a page or in a result
//   - links: Number of linked references in a batch
//   - strategy: Resolution strategy (sequential, concurrent, bounded)
//   - duration: Elapsed time
