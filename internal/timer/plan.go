package timer

import (
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/hammamikhairi/ringtimer/internal/domain"
	"github.com/hammamikhairi/ringtimer/internal/ring"
)

// Plan is the ring schedule for entering a running state.
type Plan struct {
	PhaseLength  time.Duration
	CurrentIndex int
	Snapped      []int        // already elapsed, set to the end color at once
	Tweens       []ring.Tween // fade to the end color inside their own phase
}

// PlanRunning splits n segments for state as of now. Each segment owns one
// phase of original/n. Segments past the current index have already
// elapsed; the rest fade in turn, highest index first, so the sweep tracks
// the wall clock.
func PlanRunning(state domain.TimerState, now time.Time, n int, end colorful.Color) Plan {
	phase := state.OriginalDuration / time.Duration(n)
	if phase <= 0 {
		p := Plan{Snapped: make([]int, n)}
		for i := range p.Snapped {
			p.Snapped[i] = i
		}
		return p
	}

	current := int(math.Round(float64(state.Remaining(now)) / float64(phase)))
	p := Plan{PhaseLength: phase, CurrentIndex: current}
	for i := 0; i < n; i++ {
		if i > current {
			p.Snapped = append(p.Snapped, i)
			continue
		}
		// The segment at the current index gets a negative delay: its phase
		// is already over, so it settles on the first frame.
		delay := phase * time.Duration(current-i-1)
		p.Tweens = append(p.Tweens, ring.Tween{Index: i, To: end, Delay: delay, Duration: phase})
	}
	return p
}

// PlanIdle returns every segment to start with a short staggered fade.
func PlanIdle(n int, start colorful.Color, dur, stagger time.Duration) []ring.Tween {
	tweens := make([]ring.Tween, n)
	for i := range tweens {
		tweens[i] = ring.Tween{
			Index:    i,
			To:       start,
			Delay:    time.Duration(i) * stagger,
			Duration: dur,
		}
	}
	return tweens
}
