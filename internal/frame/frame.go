// Package frame emulates a display refresh signal. Every waiter is released
// on the same fixed-interval boundaries, so a tick loop and any number of
// concurrent animations advance in lockstep, the way they would on a real
// vsync callback.
package frame

import (
	"context"
	"time"

	"github.com/hammamikhairi/ringtimer/internal/domain"
)

// Compile-time interface check.
var _ domain.FrameSource = (*Interval)(nil)

// DefaultInterval is roughly one 60Hz frame.
const DefaultInterval = 16 * time.Millisecond

// Interval releases waiters on boundaries of epoch + k*interval.
type Interval struct {
	epoch    time.Time
	interval time.Duration
}

// NewInterval creates a frame source. A non-positive interval falls back to
// DefaultInterval.
func NewInterval(interval time.Duration) *Interval {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Interval{epoch: time.Now(), interval: interval}
}

// Period returns the frame interval.
func (s *Interval) Period() time.Duration { return s.interval }

// Wait blocks until the next frame boundary. Returns ctx.Err() if the
// context ends first.
func (s *Interval) Wait(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	now := time.Now()
	next := s.epoch.Add((now.Sub(s.epoch)/s.interval + 1) * s.interval)

	t := time.NewTimer(next.Sub(now))
	defer t.Stop()

	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case at := <-t.C:
		return at, nil
	}
}
