package ratelimit

import (
	"context"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// MemoryLimiter adapts ulule's in-memory store to the Limiter interface.
// The service keeps no cross-request state elsewhere, so a per-process
// window is the right scope here.
type MemoryLimiter struct {
	inner *limiter.Limiter
}

// NewMemoryLimiter builds a fixed-window limiter allowing max requests per window.
func NewMemoryLimiter(max int64, window time.Duration) *MemoryLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	rate := limiter.Rate{Period: window, Limit: max}
	return &MemoryLimiter{inner: limiter.New(memory.NewStore(), rate)}
}

// Allow implements Limiter.
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (bool, int64, int64, time.Time, error) {
	lctx, err := m.inner.Get(ctx, key)
	if err != nil {
		return true, 0, 0, time.Time{}, err
	}
	return !lctx.Reached, lctx.Limit, lctx.Remaining, time.Unix(lctx.Reset, 0), nil
}
