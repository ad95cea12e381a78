package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/shitzu-labs/shitzu-rewarder/internal/observability/tracing"
)

// traceMiddleware attaches a trace id logger to the request context. A trace
// id sent by the client is kept, otherwise the request id is used.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(tracing.TraceIDHeader)
		if traceID == "" {
			traceID = middleware.GetReqID(r.Context())
		}

		ctx := r.Context()
		if traceID == "" {
			ctx = tracing.InjectTraceID(ctx)
		} else {
			ctx = tracing.WithTraceID(ctx, traceID)
		}

		if traceID != "" {
			w.Header().Set(tracing.TraceIDHeader, traceID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
