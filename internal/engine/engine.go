// Package engine is the timer screen's state holder. It owns one
// TimerState for a configured duration, maps button presses onto state
// transitions, hands every new state to the driver, and turns the driver's
// completion signal back into an idle state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/hammamikhairi/ringtimer/internal/domain"
	"github.com/hammamikhairi/ringtimer/internal/logger"
	"github.com/hammamikhairi/ringtimer/internal/readout"
	"github.com/hammamikhairi/ringtimer/internal/ring"
	"github.com/hammamikhairi/ringtimer/internal/timer"
)

// Compile-time interface check.
var _ domain.TickListener = (*Engine)(nil)

// Option configures the engine.
type Option func(*Engine)

// WithNotifier sets where completion messages go.
func WithNotifier(n domain.Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithClock overrides the wall clock for the engine and its driver.
func WithClock(c domain.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithDriverOptions passes options through to the driver.
func WithDriverOptions(opts ...timer.Option) Option {
	return func(e *Engine) {
		e.driverOpts = append(e.driverOpts, opts...)
	}
}

// Engine manages the timer for one configured duration.
type Engine struct {
	configured time.Duration
	ring       *ring.Ring
	store      domain.StateStore
	notifier   domain.Notifier
	clock      domain.Clock
	log        *logger.Logger
	driverOpts []timer.Option
	driver     *timer.Driver

	mu     sync.Mutex
	state  domain.TimerState
	exited bool

	display     atomic.Int64
	completions chan domain.TimerState
	ready       chan struct{}
}

// New creates an engine for configured, drawing on r. The engine starts
// idle; Run restores any snapshot saved for the same duration.
func New(configured time.Duration, r *ring.Ring, store domain.StateStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		configured:  configured,
		ring:        r,
		store:       store,
		clock:       domain.SystemClock{},
		log:         log,
		state:       domain.Idle(configured),
		completions: make(chan domain.TimerState, 1),
		ready:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.display.Store(int64(configured))

	driverOpts := append([]timer.Option{timer.WithClock(e.clock)}, e.driverOpts...)
	e.driver = timer.New(r, e, log.With("driver"), driverOpts...)
	return e
}

// Run restores saved state, starts the driver, and applies completions
// until ctx is done. On the way out the current state is saved so a new
// engine for the same duration picks up where this one stopped.
func (e *Engine) Run(ctx context.Context) error {
	e.driver.Start(ctx)
	defer e.driver.Stop()

	e.mu.Lock()
	if err := e.restore(ctx); err != nil && !errors.Is(err, domain.ErrNotFound) {
		e.log.Warn("restoring %s: %v", e.key(), err)
	}
	e.apply(e.state)
	initial := e.state
	e.mu.Unlock()
	close(e.ready)

	e.log.Info("timer screen for %s started in %s", e.configured, initial)

	for {
		select {
		case <-ctx.Done():
			e.save()
			return nil
		case done := <-e.completions:
			e.complete(ctx, done)
		}
	}
}

// Ready is closed once Run has restored and applied the initial state.
func (e *Engine) Ready() <-chan struct{} { return e.ready }

// Toggle is the start/pause button: idle and paused start, running pauses.
// Does nothing when the configured duration is zero.
func (e *Engine) Toggle() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.configured <= 0 {
		e.log.Warn("ignoring start: no duration configured")
		return
	}

	now := e.clock.Now()
	if e.state.IsRunning() {
		e.apply(domain.Pause(e.state, now))
		return
	}
	e.apply(domain.StartFrom(e.state, e.configured, now))
}

// Reset is the reset/clear button. From running or paused it returns to
// idle with the configured duration. From idle the state is left alone and
// Reset returns true: the caller should leave the timer screen.
func (e *Engine) Reset() (exit bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.IsIdle() {
		e.exited = true
		if err := e.store.Delete(context.Background(), e.key()); err != nil && !errors.Is(err, domain.ErrNotFound) {
			e.log.Warn("dropping snapshot %s: %v", e.key(), err)
		}
		e.log.Info("clear from idle, leaving timer screen")
		return true
	}
	e.apply(domain.Reset(e.configured))
	return false
}

// State returns the current state.
func (e *Engine) State() domain.TimerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Configured returns the duration this engine was set up with.
func (e *Engine) Configured() time.Duration { return e.configured }

// Display returns the remaining time to show. While idle that is the
// configured duration.
func (e *Engine) Display() time.Duration {
	return time.Duration(e.display.Load())
}

// Segments returns the ring colors in index order.
func (e *Engine) Segments() []colorful.Color { return e.ring.Colors() }

// OnTick records the latest remaining time. A zero tick means the timer is
// back to idle, which shows the configured duration.
func (e *Engine) OnTick(remaining time.Duration) {
	if remaining <= 0 {
		e.display.Store(int64(e.configured))
		return
	}
	e.display.Store(int64(remaining))
}

// OnComplete queues a finished countdown for Run. Never blocks; a second
// completion while one is queued can only be for a stale state.
func (e *Engine) OnComplete(completed domain.TimerState) {
	select {
	case e.completions <- completed:
	default:
		e.log.Debug("dropping completion for %s, one already queued", completed)
	}
}

func (e *Engine) complete(ctx context.Context, done domain.TimerState) {
	e.mu.Lock()
	if !e.state.Equal(done) {
		e.mu.Unlock()
		e.log.Debug("ignoring completion of superseded %s", done)
		return
	}
	e.apply(domain.Idle(e.configured))
	e.mu.Unlock()

	if e.notifier != nil {
		msg := fmt.Sprintf("[Timer] %s is up.", readout.Format(e.configured))
		if err := e.notifier.Notify(ctx, msg); err != nil {
			e.log.Error("notifying completion: %v", err)
		}
	}
}

// apply switches to next and hands it to the driver. Caller holds e.mu.
func (e *Engine) apply(next domain.TimerState) {
	e.log.Debug("%s -> %s", e.state, next)
	e.state = next

	if next.IsRunning() {
		e.display.Store(int64(next.Remaining(e.clock.Now())))
	}
	e.driver.Apply(next)
	// After Apply, so a last tick from the torn-down loop cannot land on top.
	if next.IsPaused() {
		e.display.Store(int64(next.Frozen))
	}
}

func (e *Engine) restore(ctx context.Context) error {
	snap, err := e.store.Load(ctx, e.key())
	if err != nil {
		return err
	}
	state, err := domain.FromSnapshot(snap)
	if err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	e.log.Debug("restored %s", state)
	e.state = state
	return nil
}

func (e *Engine) save() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.exited {
		return
	}
	if err := e.store.Save(context.Background(), e.key(), e.state.Snapshot()); err != nil {
		e.log.Error("saving %s: %v", e.key(), err)
	}
}

// key identifies saved state by configured duration, so only a screen for
// the same duration restores it.
func (e *Engine) key() string {
	return fmt.Sprintf("timer/%d", e.configured.Milliseconds())
}
