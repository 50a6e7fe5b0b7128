package reuse

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle delays provider calls: a fixed pause per call and an optional shared token bucket.
type Throttle struct {
	Delay   time.Duration
	limiter *rate.Limiter
}

// NewThrottle returns a throttle; rps <= 0 disables the token bucket.
func NewThrottle(delay time.Duration, rps float64, burst int) *Throttle {
	t := &Throttle{Delay: delay}
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return t
}

// Wait blocks the calling request only and returns early when ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	if t.Delay > 0 {
		timer := time.NewTimer(t.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	if t.limiter != nil {
		return t.limiter.Wait(ctx)
	}
	return nil
}
