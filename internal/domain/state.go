// Package domain defines the timer state machine and the ports the rest of
// the application plugs into. All other packages depend on domain; domain
// depends on nothing.
package domain

import (
	"fmt"
	"time"
)

// Kind tags the active variant of a TimerState.
type Kind int

const (
	KindIdle Kind = iota
	KindRunning
	KindPaused
)

// String returns a human-readable kind.
func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindRunning:
		return "running"
	case KindPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// TimerState is an immutable tagged union over Idle, Running and Paused.
// Only the fields belonging to Kind are meaningful; the constructors leave
// the rest zeroed so two states compare equal with == iff they are the same
// variant with the same payload.
type TimerState struct {
	Kind Kind

	// Running.
	StartedAt        time.Time
	OriginalDuration time.Duration
	Duration         time.Duration // remaining as of StartedAt

	// Paused.
	Frozen time.Duration

	// Idle.
	Configured time.Duration
}

// Idle returns the resting state. configured is used when the timer is next
// started.
func Idle(configured time.Duration) TimerState {
	return TimerState{Kind: KindIdle, Configured: clamp(configured)}
}

// Running returns a countdown that began at start with d left to go.
// original is the duration of the whole episode and survives pauses.
func Running(start time.Time, original, d time.Duration) TimerState {
	return TimerState{
		Kind:             KindRunning,
		StartedAt:        start,
		OriginalDuration: clamp(original),
		Duration:         clamp(d),
	}
}

// Paused returns a frozen countdown with remaining time left.
func Paused(remaining time.Duration) TimerState {
	return TimerState{Kind: KindPaused, Frozen: clamp(remaining)}
}

// Remaining reports how much time is left at now. Never negative.
func (s TimerState) Remaining(now time.Time) time.Duration {
	switch s.Kind {
	case KindRunning:
		return clamp(s.StartedAt.Add(s.Duration).Sub(now))
	case KindPaused:
		return s.Frozen
	default:
		return 0
	}
}

// IsRunning reports whether s is the Running variant.
func (s TimerState) IsRunning() bool { return s.Kind == KindRunning }

// IsPaused reports whether s is the Paused variant.
func (s TimerState) IsPaused() bool { return s.Kind == KindPaused }

// IsIdle reports whether s is the Idle variant.
func (s TimerState) IsIdle() bool { return s.Kind == KindIdle }

// String returns a compact description for logs.
func (s TimerState) String() string {
	switch s.Kind {
	case KindRunning:
		return fmt.Sprintf("running(start=%s, original=%s, left=%s)",
			s.StartedAt.Format("15:04:05.000"), s.OriginalDuration, s.Duration)
	case KindPaused:
		return fmt.Sprintf("paused(left=%s)", s.Frozen)
	case KindIdle:
		return fmt.Sprintf("idle(configured=%s)", s.Configured)
	default:
		return "unknown"
	}
}

// StartFrom begins or resumes a countdown at now. From Idle it starts a fresh
// episode of the idle state's configured duration; from Paused it resumes the
// frozen remainder, keeping original as the episode length. A Running state
// is returned unchanged.
func StartFrom(s TimerState, original time.Duration, now time.Time) TimerState {
	switch s.Kind {
	case KindIdle:
		return Running(now, s.Configured, s.Configured)
	case KindPaused:
		return Running(now, original, s.Frozen)
	default:
		return s
	}
}

// Pause freezes a running countdown at its remaining time as of now.
// Non-running states are returned unchanged.
func Pause(s TimerState, now time.Time) TimerState {
	if s.Kind != KindRunning {
		return s
	}
	return Paused(s.Remaining(now))
}

// Reset returns to Idle with the configured duration, from any state.
func Reset(configured time.Duration) TimerState {
	return Idle(configured)
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// Equal reports whether s and o are the same variant with the same payload.
// Start instants are compared with time.Time.Equal.
func (s TimerState) Equal(o TimerState) bool {
	return s.Kind == o.Kind &&
		s.StartedAt.Equal(o.StartedAt) &&
		s.OriginalDuration == o.OriginalDuration &&
		s.Duration == o.Duration &&
		s.Frozen == o.Frozen &&
		s.Configured == o.Configured
}
