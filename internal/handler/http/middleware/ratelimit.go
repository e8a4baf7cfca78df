package middleware

import (
	"net"
	"net/http"
	"strconv"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/handler/http/response"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/logger"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/ratelimit"
)

// RateLimit throttles requests per client IP. A nil limiter disables it and
// limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), scope+":"+clientIP(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", "scope", scope, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				response.TooManyRequests(w, auth.ErrTooManyAttempts.Error(), res.RetryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP keys on the socket peer. Forwarded headers only count once
// chi's RealIP has rewritten RemoteAddr for a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
