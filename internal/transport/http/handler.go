package http

import (
	"context"
	"log/slog"

	"policysim/internal/infrastructure"
)

// requestLogger attaches the request trace ID to a handler's logger
func requestLogger(ctx context.Context, base *slog.Logger) *slog.Logger {
	if traceID := infrastructure.GetTraceID(ctx); traceID != "" {
		return base.With(slog.String("trace_id", traceID))
	}
	return base
}
