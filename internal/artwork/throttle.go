package artwork

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinInterval spaces catalog API calls.
const DefaultMinInterval = 350 * time.Millisecond

// Clock abstracts time for the throttle.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Throttle guarantees that no two calls through Wait start less than the
// configured interval apart. One Throttle is shared by every catalog request
// in the process.
type Throttle struct {
	limiter *rate.Limiter
	clock   Clock
}

// NewThrottle builds a throttle. A non-positive interval disables spacing; a
// nil clock selects SystemClock.
func NewThrottle(interval time.Duration, clock Clock) *Throttle {
	if clock == nil {
		clock = SystemClock
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{limiter: rate.NewLimiter(limit, 1), clock: clock}
}

// Wait blocks until the next call may start or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	now := t.clock.Now()
	reservation := t.limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if delay <= 0 {
		return nil
	}
	select {
	case <-t.clock.After(delay):
		return nil
	case <-ctx.Done():
		reservation.CancelAt(t.clock.Now())
		return ctx.Err()
	}
}
