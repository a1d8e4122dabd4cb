// Package logging builds the slog loggers used by the CLI and the MCP server.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Quiet is a level above every standard level; a logger at Quiet emits nothing.
const Quiet = slog.Level(100)

// New creates a logger writing to w. format is "text" or "json".
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel converts a level name (debug, info, warn, error, quiet) to a
// slog.Level, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "quiet", "off":
		return Quiet, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
	}
}

// LevelFromVerbosity maps CLI verbosity to a level:
// 0 keeps base, 1 is info, 2 or more is debug.
func LevelFromVerbosity(base slog.Level, verbosity int) slog.Level {
	switch {
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1 && base > slog.LevelInfo:
		return slog.LevelInfo
	default:
		return base
	}
}
