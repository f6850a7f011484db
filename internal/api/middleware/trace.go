// Package middleware holds HTTP middleware shared by the API router.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/studygraph/internal/api/shared"
	"github.com/phrazzld/studygraph/internal/platform/logger"
)

// NewTraceMiddleware adds a trace ID to every request context, echoes it in
// the X-Trace-ID header, and stores a logger tagged with it so handlers and
// the services they call log with the same ID.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)
			ctx = logger.WithRequestID(ctx, traceID)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set(shared.TraceIDHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
