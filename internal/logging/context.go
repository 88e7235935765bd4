package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID stores a fresh request ID in ctx and returns it.
func WithRequestID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, requestIDKey{}, id), id
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// FromContext returns log annotated with the request ID of ctx, if any.
func FromContext(ctx context.Context, log *slog.Logger) *slog.Logger {
	if id := RequestID(ctx); id != "" {
		return log.With("request_id", id)
	}
	return log
}
