package middleware

import (
	"net/http"

	"enricher/internal/platform/logger"
	lumnet "enricher/internal/platform/net"
)

// RequestContext copies the request id into the logger context so logger.C picks it up
// it also echoes the id on the response
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := lumnet.RequestID(r.Context())
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("X-Request-ID", id)
		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
