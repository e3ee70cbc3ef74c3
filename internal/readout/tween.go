package readout

import "time"

// DefaultSizeDuration is how long a font size change takes.
const DefaultSizeDuration = 150 * time.Millisecond

// SizeTween eases the displayed font size toward its tier instead of
// jumping. Not safe for concurrent use; the renderer owns it.
type SizeTween struct {
	duration time.Duration
	from     float64
	to       float64
	start    time.Time
	started  bool
}

// NewSizeTween creates a tween that takes d per change.
func NewSizeTween(d time.Duration) *SizeTween {
	if d <= 0 {
		d = DefaultSizeDuration
	}
	return &SizeTween{duration: d}
}

// Target retargets the tween at now. The first target is taken as-is.
func (t *SizeTween) Target(size int, now time.Time) {
	target := float64(size)
	if !t.started {
		t.from, t.to, t.start, t.started = target, target, now, true
		return
	}
	if target == t.to {
		return
	}
	t.from = t.Value(now)
	t.to = target
	t.start = now
}

// Value returns the size at now.
func (t *SizeTween) Value(now time.Time) float64 {
	elapsed := now.Sub(t.start)
	if elapsed >= t.duration || elapsed < 0 {
		return t.to
	}
	frac := float64(elapsed) / float64(t.duration)
	eased := 1 - (1-frac)*(1-frac)*(1-frac)
	return t.from + (t.to-t.from)*eased
}

// Settled reports whether the tween has reached its target at now.
func (t *SizeTween) Settled(now time.Time) bool {
	return now.Sub(t.start) >= t.duration
}
