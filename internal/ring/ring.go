// Package ring holds the colors of the countdown ring's segments and
// evaluates color tweens against them.
//
// The active driver task group is the only writer at any time; the
// renderer reads through Colors. The mutex exists because those two sides
// run on different goroutines.
package ring

import (
	"context"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/hammamikhairi/ringtimer/internal/domain"
)

// DefaultSegments is the number of ticks drawn around the ring.
const DefaultSegments = 40

// Ring is a fixed-size list of segment colors. Safe for concurrent use.
type Ring struct {
	mu     sync.RWMutex
	colors []colorful.Color
}

// New creates a ring of n segments, all set to c. n below 1 is raised to 1.
func New(n int, c colorful.Color) *Ring {
	if n < 1 {
		n = 1
	}
	colors := make([]colorful.Color, n)
	for i := range colors {
		colors[i] = c
	}
	return &Ring{colors: colors}
}

// Len returns the number of segments.
func (r *Ring) Len() int { return len(r.colors) }

// Color returns the color of segment i.
func (r *Ring) Color(i int) colorful.Color {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.colors[i]
}

// Colors returns a copy of every segment color in index order.
func (r *Ring) Colors() []colorful.Color {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]colorful.Color, len(r.colors))
	copy(out, r.colors)
	return out
}

// Snap sets segment i to c immediately.
func (r *Ring) Snap(i int, c colorful.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.colors[i] = c
}

// Tween moves one segment linearly to To over Duration, after holding its
// current color for Delay. A negative Delay means the tween is already that
// far into its run when the animation starts.
type Tween struct {
	Index    int
	To       colorful.Color
	Delay    time.Duration
	Duration time.Duration
}

// End returns the offset, from the start of the animation, at which the
// tween settles.
func (t Tween) End() time.Duration { return t.Delay + t.Duration }

// Animate runs tweens frame by frame until all have settled or ctx ends.
// Start colors are captured when Animate is called. On cancellation every
// segment keeps whatever color it reached.
func (r *Ring) Animate(ctx context.Context, clock domain.Clock, frames domain.FrameSource, tweens []Tween) error {
	if len(tweens) == 0 {
		return nil
	}

	start := clock.Now()
	from := make([]colorful.Color, len(tweens))
	r.mu.RLock()
	for i, tw := range tweens {
		from[i] = r.colors[tw.Index]
	}
	r.mu.RUnlock()

	for {
		if _, err := frames.Wait(ctx); err != nil {
			return err
		}
		if r.step(tweens, from, clock.Now().Sub(start)) {
			return nil
		}
	}
}

// step applies every tween at elapsed and reports whether all have settled.
func (r *Ring) step(tweens []Tween, from []colorful.Color, elapsed time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	settled := true
	for i, tw := range tweens {
		local := elapsed - tw.Delay
		switch {
		case local < 0:
			settled = false
		case tw.Duration <= 0 || local >= tw.Duration:
			r.colors[tw.Index] = tw.To
		default:
			frac := float64(local) / float64(tw.Duration)
			r.colors[tw.Index] = from[i].BlendOkLab(tw.To, frac).Clamped()
			settled = false
		}
	}
	return settled
}
