// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package logging provides centralized zerolog-based logging for Cinerec.
//
// # Quick Start
//
//	import "github.com/tomtom215/cinerec/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Catalog load failed")
//
//	// With context (request ID)
//	logging.Ctx(ctx).Info().Int("user_id", uid).Msg("Recommendations served")
//
// # Configuration
//
// Environment Variables (mapped through internal/config):
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller info (default: false)
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("mode", m).Msg("message")  // Correct
//	logging.Info().Str("mode", m)                 // WRONG - log not emitted
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error, fatal, panic.
	// Default: info
	Level string

	// Format is the output format: json or console.
	// Default: json
	Format string

	// Caller includes caller file and line number in logs.
	Caller bool

	// Timestamp enables timestamps in log output.
	Timestamp bool

	// Service is attached to every line as "service". Empty omits the field.
	Service string

	// NoColor disables ANSI colors in console format.
	NoColor bool

	// Output is the writer for log output.
	// Default: os.Stderr
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Service:   "cinerec",
		Output:    os.Stderr,
	}
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

//nolint:gochecknoinits // logging works before the explicit Init call
func init() {
	log = build(DefaultConfig())
}

// Init reconfigures the global logger. Safe to call more than once.
//
//nolint:gocritic // hugeParam: cfg passed by value for immutability
func Init(cfg Config) {
	l := build(cfg)
	mu.Lock()
	log = l
	mu.Unlock()
}

// build creates a logger from cfg and sets the zerolog global level.
//
//nolint:gocritic // hugeParam: cfg passed by value for immutability
func build(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.MessageFieldName = "message"

	var out io.Writer = cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05", NoColor: cfg.NoColor}
	}

	zctx := zerolog.New(out).With()
	if cfg.Timestamp {
		zctx = zctx.Timestamp()
	}
	if cfg.Caller {
		zctx = zctx.Caller()
	}
	if cfg.Service != "" {
		zctx = zctx.Str("service", cfg.Service)
	}
	return zctx.Logger()
}

// parseLevel converts a string level to zerolog.Level. Unknown names are info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "warning":
		return zerolog.WarnLevel
	case "disabled":
		return zerolog.Disabled
	case "", "info":
		return zerolog.InfoLevel
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// current returns the global logger under the read lock.
func current() *zerolog.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	return &l
}

// Logger returns the global logger instance.
func Logger() zerolog.Logger {
	return *current()
}

// SetLogger replaces the global logger instance.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

// With creates a child logger context from the global logger.
func With() zerolog.Context { return current().With() }

// Debug starts a debug message on the global logger.
func Debug() *zerolog.Event { return current().Debug() }

// Info starts an info message on the global logger.
func Info() *zerolog.Event { return current().Info() }

// Warn starts a warning message on the global logger.
func Warn() *zerolog.Event { return current().Warn() }

// Error starts an error message on the global logger.
func Error() *zerolog.Event { return current().Error() }

// Fatal starts a fatal message; os.Exit(1) follows the write.
func Fatal() *zerolog.Event { return current().Fatal() }

// NewTestLogger creates a logger that writes JSON to w.
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
