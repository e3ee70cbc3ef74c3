package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/hammamikhairi/ringtimer/internal/domain"
	"github.com/hammamikhairi/ringtimer/internal/frame"
	"github.com/hammamikhairi/ringtimer/internal/logger"
	"github.com/hammamikhairi/ringtimer/internal/ring"
)

var (
	startColor = colorful.Color{R: 1, G: 1, B: 1}
	endColor   = colorful.Color{R: 0.1, G: 0.1, B: 0.1}
	t0         = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

// manualClock only moves when the test says so.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// recordingListener collects ticks and completions for assertions.
type recordingListener struct {
	mu        sync.Mutex
	ticks     []time.Duration
	completed []domain.TimerState
}

func (l *recordingListener) OnTick(remaining time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ticks = append(l.ticks, remaining)
}

func (l *recordingListener) OnComplete(s domain.TimerState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.completed = append(l.completed, s)
}

func (l *recordingListener) snapshot() ([]time.Duration, []domain.TimerState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]time.Duration(nil), l.ticks...), append([]domain.TimerState(nil), l.completed...)
}

func (l *recordingListener) tickCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ticks)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func setupDriver(t *testing.T, segments int) (*Driver, *ring.Ring, *manualClock, *recordingListener) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	clk := &manualClock{now: t0}
	r := ring.New(segments, startColor)
	l := &recordingListener{}
	d := New(r, l, log,
		WithClock(clk),
		WithFrameSource(frame.NewInterval(time.Millisecond)),
		WithColors(startColor, endColor),
	)
	d.Start(context.Background())
	t.Cleanup(d.Stop)
	return d, r, clk, l
}

func TestPlanRunningSnapsElapsedSegments(t *testing.T) {
	original := 4000 * time.Millisecond
	// Resumed with 1000ms to go.
	state := domain.Running(t0, original, time.Second)

	p := PlanRunning(state, t0, 40, endColor)

	if p.PhaseLength != 100*time.Millisecond {
		t.Fatalf("phase = %s, want 100ms", p.PhaseLength)
	}
	if p.CurrentIndex != 10 {
		t.Fatalf("current index = %d, want 10", p.CurrentIndex)
	}
	if len(p.Snapped) != 29 || p.Snapped[0] != 11 || p.Snapped[len(p.Snapped)-1] != 39 {
		t.Fatalf("snapped = %v, want 11..39", p.Snapped)
	}
	if len(p.Tweens) != 11 {
		t.Fatalf("expected 11 tweens for segments 0..10, got %d", len(p.Tweens))
	}
	for i := 1; i < len(p.Tweens); i++ {
		lo, hi := p.Tweens[i], p.Tweens[i-1]
		if lo.Index != i || hi.Index != i-1 {
			t.Fatalf("tweens out of index order: %+v", p.Tweens)
		}
		if hi.Delay <= lo.Delay {
			t.Fatalf("delay for segment %d (%s) not above segment %d (%s)", hi.Index, hi.Delay, lo.Index, lo.Delay)
		}
		if lo.Duration != p.PhaseLength {
			t.Fatalf("tween %d duration = %s", lo.Index, lo.Duration)
		}
	}
	if p.Tweens[9].Delay != 0 {
		t.Fatalf("segment 9 should start fading immediately, delay = %s", p.Tweens[9].Delay)
	}
	// Segment 10's phase is already over: its tween ends at zero.
	if cur := p.Tweens[10]; cur.Delay != -p.PhaseLength || cur.End() != 0 {
		t.Fatalf("segment 10 delay = %s end = %s, want -%s and 0", cur.Delay, cur.End(), p.PhaseLength)
	}
}

func TestPlanRunningFreshStartAnimatesEverything(t *testing.T) {
	d := 4 * time.Second
	p := PlanRunning(domain.Running(t0, d, d), t0, 40, endColor)
	if p.CurrentIndex != 40 {
		t.Fatalf("current index = %d, want 40", p.CurrentIndex)
	}
	if len(p.Snapped) != 0 || len(p.Tweens) != 40 {
		t.Fatalf("snapped=%d tweens=%d, want 0/40", len(p.Snapped), len(p.Tweens))
	}
	if last := p.Tweens[0]; last.End() != d {
		t.Fatalf("segment 0 settles at %s, want %s", last.End(), d)
	}
}

func TestPlanRunningTinyDurationSnapsAll(t *testing.T) {
	p := PlanRunning(domain.Running(t0, 10, 10), t0, 40, endColor)
	if len(p.Snapped) != 40 || len(p.Tweens) != 0 {
		t.Fatalf("snapped=%d tweens=%d, want 40/0", len(p.Snapped), len(p.Tweens))
	}
}

func TestDriverCompletesAtZero(t *testing.T) {
	d, _, clk, l := setupDriver(t, 40)
	state := domain.Running(t0, 500*time.Millisecond, 500*time.Millisecond)

	clk.Set(t0.Add(100 * time.Millisecond))
	d.Apply(state)
	waitFor(t, "first ticks", func() bool { return l.tickCount() >= 3 })

	clk.Set(t0.Add(300 * time.Millisecond))
	waitFor(t, "more ticks", func() bool { return l.tickCount() >= 6 })

	clk.Set(t0.Add(500 * time.Millisecond))
	waitFor(t, "completion", func() bool {
		_, done := l.snapshot()
		return len(done) == 1
	})

	// Give a stale loop the chance to keep ticking.
	time.Sleep(20 * time.Millisecond)

	ticks, done := l.snapshot()
	if !done[0].Equal(state) {
		t.Fatalf("completed %s, want %s", done[0], state)
	}
	if ticks[len(ticks)-1] != 0 {
		t.Fatalf("last tick = %s, want 0", ticks[len(ticks)-1])
	}
	zeros := 0
	for i, v := range ticks {
		if v == 0 {
			zeros++
		}
		if i > 0 && v > ticks[i-1] {
			t.Fatalf("tick %d went up: %s -> %s", i, ticks[i-1], v)
		}
	}
	if zeros != 1 {
		t.Fatalf("expected exactly one zero tick, got %d in %v", zeros, ticks)
	}
}

func TestDriverPauseFreezesTicksAndRing(t *testing.T) {
	d, r, clk, l := setupDriver(t, 40)
	original := 4 * time.Second
	running := domain.Running(t0, original, original)

	d.Apply(running)
	clk.Set(t0.Add(2 * time.Second))
	waitFor(t, "segments fading", func() bool {
		return r.Color(39).AlmostEqualRgb(endColor)
	})

	d.Apply(domain.Pause(running, clk.Now()))
	before := l.tickCount()
	frozen := r.Colors()

	clk.Set(t0.Add(3 * time.Second))
	time.Sleep(20 * time.Millisecond)

	if got := l.tickCount(); got != before {
		t.Fatalf("ticks kept coming while paused: %d -> %d", before, got)
	}
	for i, c := range r.Colors() {
		if c != frozen[i] {
			t.Fatalf("segment %d changed while paused", i)
		}
	}
	if !r.Color(0).AlmostEqualRgb(startColor) {
		t.Fatalf("segment 0 should still be full half-way through, got %s", r.Color(0).Hex())
	}
}

func TestDriverIdleRestoresStartColor(t *testing.T) {
	d, r, clk, l := setupDriver(t, 8)
	for i := 0; i < r.Len(); i++ {
		r.Snap(i, endColor)
	}

	d.Apply(domain.Idle(time.Minute))

	ticks, _ := l.snapshot()
	if len(ticks) != 1 || ticks[0] != 0 {
		t.Fatalf("expected a single zero tick on idle, got %v", ticks)
	}

	// Segment 7 starts last, after 7*5ms, and fades for 10ms.
	clk.Set(t0.Add(50 * time.Millisecond))
	waitFor(t, "ring restored", func() bool {
		for _, c := range r.Colors() {
			if !c.AlmostEqualRgb(startColor) {
				return false
			}
		}
		return true
	})
}

func TestDriverIgnoresRepeatedState(t *testing.T) {
	d, _, _, l := setupDriver(t, 4)

	idle := domain.Idle(time.Minute)
	d.Apply(idle)
	d.Apply(idle)
	d.Apply(domain.Idle(time.Minute))

	if got := l.tickCount(); got != 1 {
		t.Fatalf("expected one zero tick for a repeated state, got %d", got)
	}
	if !d.Current().Equal(idle) {
		t.Fatalf("current = %s", d.Current())
	}
}

func TestDriverTearsDownSupersededRunning(t *testing.T) {
	d, _, clk, l := setupDriver(t, 40)
	state := domain.Running(t0, time.Minute, time.Minute)

	d.Apply(state)
	waitFor(t, "ticks", func() bool { return l.tickCount() >= 2 })

	d.Apply(domain.Idle(time.Minute))
	after := l.tickCount()

	clk.Set(t0.Add(10 * time.Second))
	time.Sleep(20 * time.Millisecond)

	ticks, done := l.snapshot()
	if len(ticks) != after {
		t.Fatalf("superseded loop kept ticking: %v", ticks[after:])
	}
	if ticks[len(ticks)-1] != 0 {
		t.Fatalf("idle should end on a zero tick, got %s", ticks[len(ticks)-1])
	}
	if len(done) != 0 {
		t.Fatalf("superseded running state reported completion")
	}
}
