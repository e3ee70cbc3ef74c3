package domain

import (
	"context"
	"time"
)

// Clock supplies wall-clock readings. All remaining-time arithmetic goes
// through it so tests can drive time by hand.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// FrameSource paces continuous work to the display refresh. Wait blocks
// until the next frame boundary or until ctx is done.
type FrameSource interface {
	Wait(ctx context.Context) (time.Time, error)
}

// TickListener consumes the driver's output. OnTick receives the remaining
// time once per frame while running, and a single zero on completion or on
// entering idle. OnComplete receives the running state that reached zero.
// Both are called from driver goroutines and must not block.
type TickListener interface {
	OnTick(remaining time.Duration)
	OnComplete(completed TimerState)
}

// StateStore keeps timer snapshots across a transient teardown of the
// screen. Implementations can be in-memory or backed by anything that can
// hold a few integers.
type StateStore interface {
	Save(ctx context.Context, key string, snap Snapshot) error
	Load(ctx context.Context, key string) (Snapshot, error)
	Delete(ctx context.Context, key string) error
}

// Notifier delivers short messages to the user, e.g. printed above the
// terminal view.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
