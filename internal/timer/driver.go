// Package timer drives the countdown display from the timer state machine.
//
// A Driver owns one task group per state it is given. Applying a new state
// cancels the previous group and waits for it to exit before the new one
// starts, so a superseded tick loop or ring animation can never write over
// the new state's output.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/hammamikhairi/ringtimer/internal/domain"
	"github.com/hammamikhairi/ringtimer/internal/frame"
	"github.com/hammamikhairi/ringtimer/internal/logger"
	"github.com/hammamikhairi/ringtimer/internal/ring"
)

// Option configures the driver.
type Option func(*Driver)

// WithColors sets the ring's start (full) and end (elapsed) colors.
func WithColors(start, end colorful.Color) Option {
	return func(d *Driver) {
		d.startColor = start
		d.endColor = end
	}
}

// WithIdleTween sets how fast segments return to the start color on idle.
// Segment i waits i*stagger before its tween of length dur begins.
func WithIdleTween(dur, stagger time.Duration) Option {
	return func(d *Driver) {
		d.idleDuration = dur
		d.idleStagger = stagger
	}
}

// WithFrameSource sets the refresh signal used for ticks and animations.
func WithFrameSource(fs domain.FrameSource) Option {
	return func(d *Driver) {
		d.frames = fs
	}
}

// WithClock overrides the wall clock.
func WithClock(c domain.Clock) Option {
	return func(d *Driver) {
		d.clock = c
	}
}

// Driver turns state changes into per-frame ticks and ring animations.
type Driver struct {
	ring         *ring.Ring
	listener     domain.TickListener
	log          *logger.Logger
	clock        domain.Clock
	frames       domain.FrameSource
	startColor   colorful.Color
	endColor     colorful.Color
	idleDuration time.Duration
	idleStagger  time.Duration

	mu      sync.Mutex
	parent  context.Context
	current domain.TimerState
	applied bool
	cancel  context.CancelFunc
	group   *sync.WaitGroup
}

// New creates a driver for r that reports to listener.
func New(r *ring.Ring, listener domain.TickListener, log *logger.Logger, opts ...Option) *Driver {
	d := &Driver{
		ring:         r,
		listener:     listener,
		log:          log,
		clock:        domain.SystemClock{},
		frames:       frame.NewInterval(frame.DefaultInterval),
		startColor:   colorful.Color{R: 0.73, G: 0.9, B: 0.99},
		endColor:     colorful.Color{R: 0.15, G: 0.15, B: 0.16},
		idleDuration: 10 * time.Millisecond,
		idleStagger:  5 * time.Millisecond,
		parent:       context.Background(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start sets the parent scope for every task group. Cancelling ctx stops
// whatever the current state is running. Non-blocking.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.parent = ctx
}

// Stop tears down the current task group and waits for it to exit.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.teardown()
	d.applied = false
}

// Current returns the last applied state.
func (d *Driver) Current() domain.TimerState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Apply switches the driver to state. Applying the state that is already
// current does nothing. The listener may be called synchronously, so it
// must not call back into Apply.
func (d *Driver) Apply(state domain.TimerState) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.applied && d.current.Equal(state) {
		d.log.Debug("state unchanged, keeping %s", state)
		return
	}

	d.teardown()
	d.current = state
	d.applied = true

	ctx, cancel := context.WithCancel(d.parent)
	d.cancel = cancel
	d.group = &sync.WaitGroup{}

	d.log.Debug("applying %s", state)

	switch state.Kind {
	case domain.KindRunning:
		d.enterRunning(ctx, d.group, state)
	case domain.KindPaused:
		// Nothing to run: the cancelled group left the ring where it was.
	case domain.KindIdle:
		d.enterIdle(ctx, d.group)
	}
}

// teardown cancels the current group and waits for it. Caller holds d.mu.
func (d *Driver) teardown() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	d.group.Wait()
	d.cancel = nil
	d.group = nil
}

func (d *Driver) enterRunning(ctx context.Context, group *sync.WaitGroup, state domain.TimerState) {
	plan := PlanRunning(state, d.clock.Now(), d.ring.Len(), d.endColor)
	d.log.Debug("running plan: phase=%s index=%d snapped=%d animated=%d",
		plan.PhaseLength, plan.CurrentIndex, len(plan.Snapped), len(plan.Tweens))

	for _, i := range plan.Snapped {
		d.ring.Snap(i, d.endColor)
	}

	group.Add(2)
	go func() {
		defer group.Done()
		d.animate(ctx, plan.Tweens)
	}()
	go func() {
		defer group.Done()
		d.tickLoop(ctx, state)
	}()
}

func (d *Driver) enterIdle(ctx context.Context, group *sync.WaitGroup) {
	d.listener.OnTick(0)

	tweens := PlanIdle(d.ring.Len(), d.startColor, d.idleDuration, d.idleStagger)
	group.Add(1)
	go func() {
		defer group.Done()
		d.animate(ctx, tweens)
	}()
}

func (d *Driver) animate(ctx context.Context, tweens []ring.Tween) {
	if err := d.ring.Animate(ctx, d.clock, d.frames, tweens); err != nil {
		d.log.Debug("ring animation stopped: %v", err)
	}
}

// tickLoop emits the remaining time once per frame. Every value is
// recomputed from the clock, so a late frame never accumulates drift.
func (d *Driver) tickLoop(ctx context.Context, state domain.TimerState) {
	for {
		if _, err := d.frames.Wait(ctx); err != nil {
			return
		}
		remaining := state.Remaining(d.clock.Now())
		d.listener.OnTick(remaining)
		if remaining <= 0 {
			d.log.Info("countdown of %s finished", state.OriginalDuration)
			d.listener.OnComplete(state)
			return
		}
	}
}
