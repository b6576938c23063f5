package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// EnsureTraceID returns ctx carrying a trace ID. A CLI run or a websocket
// session without an incoming request ID gets a fresh UUID.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, uuid.NewString())
}

// WithComponent tags logger with the emitting component; nil selects the global logger
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With(slog.String("component", component))
}

// DatasetAttrs groups the identifying fields of a dataset under "dataset"
func DatasetAttrs(id, name string) slog.Attr {
	return slog.Group("dataset", slog.String("id", id), slog.String("name", name))
}
