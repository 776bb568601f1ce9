package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
)

type middlewareFunc func(next http.Handler) http.Handler

func useMiddlewares(r *http.ServeMux, middlewares ...middlewareFunc) http.Handler {
	var s http.Handler
	s = r

	for _, mw := range middlewares {
		s = mw(s)
	}

	return s
}

func (a *API) requestContextMiddleware() middlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := uuid.New()
			logger := a.logger.With(slog.String("request-id", requestId.String()))

			ctx := ctxWithLogger(ctxWithRequestId(r.Context(), requestId), logger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *API) loggingMiddleware() middlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			loggingRW := newLoggingResponseWriter(w)

			// process the request
			next.ServeHTTP(loggingRW, r)

			a.requestLogger(r.Context()).InfoContext(r.Context(),
				"Access log",
				slog.String("latency", formatDuration(time.Since(start))),
				slog.Int64("request-content-length", r.ContentLength),
				slog.Int("resp-body-size", loggingRW.responseSize),
				slog.String("host", r.Host),
				slog.String("method", r.Method),
				slog.Int("status-code", loggingRW.statusCode),
				slog.String("path", r.URL.Path),
			)
		})
	}
}

func (a *API) corsMiddleware() middlewareFunc {
	var serverCors *cors.Cors

	switch a.env {
	case LOCAL:
		serverCors = cors.AllowAll()
	case PROD:
		serverCors = cors.New(cors.Options{
			AllowedOrigins:   []string{"https://studentsympo.in"},
			AllowedMethods:   []string{"GET", "POST"},
			AllowCredentials: true,
			MaxAge:           300,
		})
	}

	return serverCors.Handler
}

// requireSession rejects requests without a valid session cookie and puts the
// session claims on the request context for the handler.
func (a *API) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			redirectWithError(w, r, "/login", "session_expired")
			return
		}

		session, err := a.sessions.Validate(cookie.Value)
		if err != nil {
			a.requestLogger(r.Context()).Warn("Rejected session token", "error", err)

			a.clearSessionCookie(w)
			redirectWithError(w, r, "/login", "session_expired")
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithSession(r.Context(), session)))
	})
}

// formatDuration formats a duration to one decimal point.
func formatDuration(d time.Duration) string {
	div := time.Duration(10)
	switch {
	case d > time.Second:
		d = d.Round(time.Second / div)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond / div)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond / div)
	case d > time.Nanosecond:
		d = d.Round(time.Nanosecond / div)
	}
	return d.String()
}
