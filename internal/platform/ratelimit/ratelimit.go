// Package ratelimit throttles the registration endpoint per client key.
// The store decides; the middleware only translates decisions to HTTP.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Decision is the outcome of one limiter check.
type Decision struct {
	Allowed bool
	// RetryAfter is the value for the Retry-After header when blocking.
	RetryAfter time.Duration
}

// Store obtains a rate-limit decision for a key (client IP here). An
// implementation may keep per-key state locally or in Redis.
type Store interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// KeyFunc derives the limiter key from a request.
type KeyFunc func(r *http.Request) string

// ClientIP extracts the original client IP, preferring the first entry of
// X-Forwarded-For and falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// Middleware enforces the store's decision, replying 429 with Retry-After
// when blocked. A nil store disables throttling. Store failures fail open:
// an unreachable Redis must not take registration down with it.
func Middleware(store Store, keyFn KeyFunc) func(http.Handler) http.Handler {
	if keyFn == nil {
		keyFn = ClientIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				next.ServeHTTP(w, r)
				return
			}
			dec, err := store.Allow(r.Context(), keyFn(r))
			if err != nil || dec.Allowed {
				next.ServeHTTP(w, r)
				return
			}
			if dec.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(dec.RetryAfter.Seconds())))
			}
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		})
	}
}
