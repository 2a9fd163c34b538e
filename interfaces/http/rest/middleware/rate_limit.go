package middleware

import (
	"net"
	"net/http"
	"strconv"

	pkgerrors "lineage/pkg/errors"
	"lineage/pkg/ratelimit"

	"go.uber.org/zap"
)

// RateLimit rejects requests from an IP once its token bucket is empty.
// It expects chi's RealIP middleware to have run first.
func RateLimit(limiter *ratelimit.IPRateLimiter, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				// Fail open
				logger.Warn("Rate limiter error", zap.String("ip", ip), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(1))
				errorHandler.Handle(w, r, pkgerrors.NewRateLimitError(limiter.RPS(), "second"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
