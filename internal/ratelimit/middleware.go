package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// Limiter answers whether the request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, limit, remaining int64, resetAt time.Time, err error)
}

// Handler enforces rate limits before delegating to the next handler. Limiter
// errors fail open: a broken limiter must not take the webhook route down.
type Handler struct {
	Limiter Limiter
	Key     func(*http.Request) string
	OnError func(error)
}

// Middleware implements the http.Handler middleware interface.
func (h Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Limiter == nil || h.Key == nil {
			next.ServeHTTP(w, r)
			return
		}
		key := h.Key(r)
		allowed, limit, remaining, resetAt, err := h.Limiter.Allow(r.Context(), key)
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		headers.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			headers.Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
