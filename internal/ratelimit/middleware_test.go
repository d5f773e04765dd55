package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	allowed   bool
	limit     int64
	remaining int64
	resetAt   time.Time
	err       error
}

func (s stubLimiter) Allow(context.Context, string) (bool, int64, int64, time.Time, error) {
	return s.allowed, s.limit, s.remaining, s.resetAt, s.err
}

func keyByIP(r *http.Request) string { return r.RemoteAddr }

func TestMiddlewareAllows(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	h := Handler{
		Limiter: stubLimiter{allowed: true, limit: 10, remaining: 9, resetAt: time.Now().Add(time.Minute)},
		Key:     keyByIP,
	}
	rr := httptest.NewRecorder()
	h.Middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhook", nil))

	require.True(t, called)
	require.Equal(t, "10", rr.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "9", rr.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddlewareBlocks(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	h := Handler{
		Limiter: stubLimiter{allowed: false, limit: 10, resetAt: time.Now().Add(30 * time.Second)},
		Key:     keyByIP,
	}
	rr := httptest.NewRecorder()
	h.Middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhook", nil))

	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestMiddlewareFailsOpen(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	var seen error
	h := Handler{
		Limiter: stubLimiter{err: errors.New("store unavailable")},
		Key:     keyByIP,
		OnError: func(err error) { seen = err },
	}
	rr := httptest.NewRecorder()
	h.Middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhook", nil))

	require.True(t, called)
	require.Error(t, seen)
}

func TestMemoryLimiterWindow(t *testing.T) {
	lim := NewMemoryLimiter(2, time.Minute)

	allowed, _, remaining, _, err := lim.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	require.True(t, allowed)
	require.Equal(t, int64(1), remaining)

	allowed, _, _, _, err = lim.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _, _, _, err = lim.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	require.False(t, allowed)

	// other keys keep their own counters
	allowed, _, _, _, err = lim.Allow(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	require.True(t, allowed)
}
