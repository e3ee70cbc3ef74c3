package ring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{}
)

// steppingClock advances by step on every frame, so animations run
// deterministically without sleeping.
type steppingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) Wait(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now, nil
}

func TestSnapAndColorsCopy(t *testing.T) {
	r := New(4, white)
	r.Snap(2, black)

	colors := r.Colors()
	if colors[2] != black || colors[1] != white {
		t.Fatalf("unexpected colors %v", colors)
	}
	colors[0] = black
	if r.Color(0) != white {
		t.Fatal("Colors must return a copy")
	}
}

func TestNewClampsSegmentCount(t *testing.T) {
	if got := New(0, white).Len(); got != 1 {
		t.Fatalf("Len = %d, want 1", got)
	}
}

func TestAnimateSettlesOnTarget(t *testing.T) {
	r := New(3, white)
	clk := &steppingClock{now: time.Unix(0, 0), step: 10 * time.Millisecond}

	tweens := []Tween{
		{Index: 0, To: black, Delay: 50 * time.Millisecond, Duration: 100 * time.Millisecond},
		{Index: 1, To: black, Duration: 100 * time.Millisecond},
		{Index: 2, To: black},
	}
	if err := r.Animate(context.Background(), clk, clk, tweens); err != nil {
		t.Fatalf("animate: %v", err)
	}
	for i, c := range r.Colors() {
		if !c.AlmostEqualRgb(black) {
			t.Fatalf("segment %d = %s, want black", i, c.Hex())
		}
	}
	if elapsed := clk.Now().Sub(time.Unix(0, 0)); elapsed < 150*time.Millisecond {
		t.Fatalf("animation finished after %s, before the delayed tween could end", elapsed)
	}
}

func TestAnimateHoldsDuringDelay(t *testing.T) {
	r := New(1, white)

	tweens := []Tween{{Index: 0, To: black, Delay: time.Hour, Duration: time.Second}}
	if done := r.step(tweens, []colorful.Color{white}, 30*time.Minute); done {
		t.Fatal("tween reported settled during its delay")
	}
	if r.Color(0) != white {
		t.Fatalf("segment moved during delay: %s", r.Color(0).Hex())
	}

	r.step(tweens, []colorful.Color{white}, time.Hour+500*time.Millisecond)
	mid := r.Color(0)
	if mid.AlmostEqualRgb(white) || mid.AlmostEqualRgb(black) {
		t.Fatalf("expected an intermediate color half-way, got %s", mid.Hex())
	}
}

func TestAnimateStopsOnCancelAndKeepsColor(t *testing.T) {
	r := New(1, white)
	clk := &steppingClock{now: time.Unix(0, 0), step: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Animate(ctx, clk, clk, []Tween{{Index: 0, To: black, Duration: time.Second}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if r.Color(0) != white {
		t.Fatalf("cancelled animation changed color to %s", r.Color(0).Hex())
	}
}
