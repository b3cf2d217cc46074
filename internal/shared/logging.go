package shared

import (
	"io"
	"log/slog"
)

// NewLogger builds the process logger: warnings only under quiet, debug under
// verbose, info otherwise. Quiet wins when both are set.
func NewLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelWarn
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
