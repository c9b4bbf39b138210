package http

import (
	"context"
	"log/slog"
	"net/http"
)

// requestLog binds the adapter identity and the request id once, so a single
// grep on request_id follows one request across every line it produced.
func requestLog(ctx context.Context) *slog.Logger {
	return slog.Default().With(
		"service", "notification-engine",
		"layer", "http",
		"request_id", requestIDFromContext(ctx),
	)
}

// logRequestFailure records a handled error at a severity matching the
// response status. Client errors stay at warn; only 5xx pages someone.
func logRequestFailure(ctx context.Context, operation string, status int, code string, err error) {
	logger := requestLog(ctx).With(
		"operation", operation,
		"status_code", status,
		"error_code", code,
	)
	if err != nil {
		logger = logger.With("error", err.Error())
	}
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed")
		return
	}
	logger.WarnContext(ctx, "request failed")
}
