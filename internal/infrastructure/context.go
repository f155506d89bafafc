package infrastructure

import (
	"log/slog"

	"github.com/google/uuid"
)

// GenerateTraceID returns a fresh random trace ID. Pipeline runs reuse it as
// their run ID.
func GenerateTraceID() string {
	return uuid.NewString()
}

// WithComponent tags logger (or the global logger when nil) with component.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = GetLogger()
	}
	return logger.With(slog.String("component", component))
}

// WithError tags logger with err; a nil err leaves it unchanged.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With(slog.String("error", err.Error()))
}
