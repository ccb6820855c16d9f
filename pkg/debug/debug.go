// Package debug provides category-based debug logging for searelay and
// configures the process-wide slog logger.
//
// Two orthogonal controls:
//   - Categories (WHAT to debug): logging.debug in config or SEARELAY_DEBUG
//   - Level (HOW MUCH detail): logging.level in config or SEARELAY_LOG_LEVEL
//
// Usage:
//
//	debug.Log("upstream", "chat completion request", "model", model, "messages", n)
//	if debug.Enabled("relay") { /* expensive formatting */ }
//
// Categories: upstream, relay, transport, auth, config, all.
// Levels: ERROR, WARN, INFO, DEBUG, TRACE.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace is below slog.LevelDebug. At TRACE, message contents sent to
// and received from the upstream are logged (truncated).
const LevelTrace = slog.LevelDebug - 4

// categories is written once by Init during startup and read-only afterwards.
var categories = map[string]bool{}

// Init configures categories and installs a text slog handler on stderr as
// the default logger. Both arguments come from the loaded configuration,
// which has already applied environment overrides.
func Init(level, cats string) *slog.Logger {
	return InitWriter(os.Stderr, level, cats)
}

// InitWriter is Init with an explicit output, used by tests.
func InitWriter(w io.Writer, level, cats string) *slog.Logger {
	categories = parseCategories(cats)

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

// Enabled reports whether debug output is active for the given category.
func Enabled(category string) bool {
	return categories["all"] || categories[category]
}

// Log emits a debug message for the given category. It is a no-op when the
// category is not enabled.
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a trace-level message for the given category.
// Only visible when the log level is TRACE.
func Trace(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(context.Background(), LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// TraceIsEnabled reports whether TRACE level is active for the given category.
func TraceIsEnabled(category string) bool {
	if !Enabled(category) {
		return false
	}
	return slog.Default().Enabled(context.Background(), LevelTrace)
}

// ParseLevel converts a level string to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "INFO", "":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Truncate returns s cut to at most maxLen runes, with "..." appended if
// anything was removed. Message contents are often non-ASCII.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	if s == "" {
		return m
	}
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
