// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type logger struct{}

// output is where every handler created by this package writes.
// Logs go to stderr so they never mix with the command output.
var output io.Writer = os.Stderr

// NewLogger creates a new slog.Logger instance.
// If handlers are provided, the first handler in the slice is used; otherwise,
// a default handler is created based on the LOG_FORMAT and LOG_LEVEL environment variables.
func NewLogger(h ...slog.Handler) *slog.Logger {
	var handler slog.Handler
	if len(h) > 0 {
		handler = h[0]
	} else {
		handler = newHandler()
	}
	return slog.New(handler)
}

// IntoContext embeds the provided slog.Logger into the given context and returns the modified context.
// This function is used for passing loggers down the call chain.
func IntoContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, logger{}, log)
}

// FromContext extracts the slog.Logger from the given context.
// If no logger is present it returns a new logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(logger{}).(*slog.Logger); ok {
			return log
		}
	}
	return NewLogger()
}

// NewHandler creates a handler for the given format and level.
// Unknown formats fall back to TEXT and unknown levels to INFO.
func NewHandler(format, level string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: getLevel(level),
	}

	if strings.EqualFold(format, "JSON") {
		return slog.NewJSONHandler(output, opts)
	}
	return slog.NewTextHandler(output, opts)
}

// newHandler creates a new slog.Handler based on the LOG_FORMAT and LOG_LEVEL environment variables.
func newHandler() slog.Handler {
	return NewHandler(os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL"))
}

// getLevel takes a log level as a string and converts it to a slog.Level.
// If the level is not recognized, it defaults to slog.LevelInfo.
func getLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
