// Package logging builds the debug logger enabled by --debug.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w at debug level when debug is
// set, and a logger that discards everything otherwise.
func New(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return New(nil, false)
}
