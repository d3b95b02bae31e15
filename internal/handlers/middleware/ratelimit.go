package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/immobiligb/immobili-api/internal/handlers/render"
)

type limiter interface {
	// Record one request for the key; on rejection retryAfter tells
	// when the window resets
	Admit(key string) (admitted bool, retryAfter time.Duration)
}

// RateLimitMiddleware applies per-client admission control before
// anything else runs. Rejected requests get 429 with a Retry-After
// hint and never reach token validation or the store.
func RateLimitMiddleware(l limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admitted, retryAfter := l.Admit(clientKey(r))
			if !admitted {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(retryAfter)))
				render.ServiceError(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey picks the client IP. The service runs behind a reverse
// proxy, so forwarded headers win over the socket peer.
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// retryAfterSeconds rounds up and never hints zero
func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
