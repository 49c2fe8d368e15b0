package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// newOpLimiter caps mutating syscalls to opsPerSec. A non-positive rate
// means unlimited and returns nil.
func newOpLimiter(opsPerSec int) *rate.Limiter {
	if opsPerSec <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(opsPerSec), 1)
}

func waitOp(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return ctx.Err()
	}
	return l.Wait(ctx)
}
