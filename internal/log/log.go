// Package log builds the structured logger used throughout the simulator:
// a JSON slog handler over stderr, plus small Attr helpers so call sites
// read as key/value pairs instead of free-form fmt.Sprintf strings.
package log

import (
	"log/slog"
	"os"
)

// BuildLogger returns a JSON slog.Logger writing to stderr at the given
// level ("debug", "info", "warn", "error"; unrecognized values fall back
// to "info").
func BuildLogger(level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLevel(level),
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}

func StringAttr(key, value string) slog.Attr {
	return slog.String(key, value)
}

func IntAttr(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func AnyAttr(key string, value any) slog.Attr {
	return slog.Any(key, value)
}
