package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/campuseats/campuseats-backend/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"
	// Incoming IDs longer than this are replaced rather than trusted.
	maxRequestIDLen = 64
)

// RequestID keeps the caller's request ID when it looks sane, mints a UUID
// otherwise, echoes it on the response, and binds it to the request logger so
// every log line downstream carries it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
