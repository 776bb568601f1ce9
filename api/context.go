package api

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

const (
	ctxRequestIdKey = "REQUEST_ID"
	ctxLoggerKey    = "LOGGER"
	ctxSessionKey   = "SESSION"
)

func ctxWithRequestId(ctx context.Context, requestId uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxRequestIdKey, requestId)
}

func getRequestIdFromCtx(ctx context.Context) uuid.UUID {
	return ctx.Value(ctxRequestIdKey).(uuid.UUID)
}

func ctxWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey, logger)
}

func getLoggerFromCtx(ctx context.Context) *slog.Logger {
	return ctx.Value(ctxLoggerKey).(*slog.Logger)
}

// requestLogger falls back to the base logger for requests that did not go
// through the context middleware, like in handler unit tests.
func (a *API) requestLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey).(*slog.Logger); ok {
		return logger
	}
	return a.logger
}

func ctxWithSession(ctx context.Context, session *SessionClaims) context.Context {
	return context.WithValue(ctx, ctxSessionKey, session)
}

func getSessionFromCtx(ctx context.Context) *SessionClaims {
	return ctx.Value(ctxSessionKey).(*SessionClaims)
}
