package world

import (
	"log/slog"

	"github.com/tatianab/blocksworld/internal/journal"
)

// Option configures a World.
type Option func(*World)

// WithSink sets where the action log is flushed. A nil sink is ignored.
func WithSink(sink journal.Sink) Option {
	return func(w *World) {
		if sink != nil {
			w.sink = sink
		}
	}
}

// WithLogger configures a logger for diagnostics such as failed flushes.
// A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}
