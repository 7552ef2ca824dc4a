package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// HTTPResponseTraceInjection copies the active trace id into the response so
// callers can quote it when reporting a failed request.
func HTTPResponseTraceInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		spanCtx := trace.SpanContextFromContext(r.Context())
		if spanCtx.HasTraceID() {
			w.Header().Set("X-Trace-Id", spanCtx.TraceID().String())
		}

		next.ServeHTTP(w, r)
	})
}
