// Package middleware provides reusable HTTP middleware for request IDs,
// Prometheus metrics, request timeouts, and rate limiting.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/civic-records/registry-search/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns every request a UUID (or propagates the caller's
// X-Request-ID) and stores it in the request context for logging.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
