package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/redmonkez12/taskapi/internal/httputil"
	"github.com/redmonkez12/taskapi/internal/logging"
)

// failureLogInterval spaces out "limiter unavailable" errors while the
// backend is down, since every request would otherwise log one.
const failureLogInterval = 30 * time.Second

// Middleware limits requests per client IP. purpose separates the counters
// of different routes. Limiter failures let the request through.
func Middleware(limiter Limiter, purpose string) func(http.Handler) http.Handler {
	failureLog := &rate.Sometimes{First: 1, Interval: failureLogInterval}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := purpose + ":" + clientIP(r)

			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				failureLog.Do(func() {
					logging.GetLoggerFromContext(r.Context()).Error("rate limiter unavailable", "purpose", purpose, "error", err.Error())
				})
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(1, retryAfter)))
				logging.GetLoggerFromContext(r.Context()).Warn("rate limit exceeded", "purpose", purpose)
				httputil.RespondErrorWithCode(w, "Too many requests, please try again later", httputil.CodeTooManyRequests, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP reads the socket address. Forwarded headers only count when the
// router installed chi's RealIP for a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
