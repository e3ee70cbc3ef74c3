package domain

import (
	"fmt"
	"time"
)

// Snapshot is the serializable form of a TimerState: a tag plus plain
// millisecond fields, so any host can persist and restore it.
type Snapshot struct {
	Kind         string `json:"kind"`
	StartUnixMs  int64  `json:"start_unix_ms,omitempty"`
	OriginalMs   int64  `json:"original_ms,omitempty"`
	DurationMs   int64  `json:"duration_ms,omitempty"`
	RemainingMs  int64  `json:"remaining_ms,omitempty"`
	ConfiguredMs int64  `json:"configured_ms,omitempty"`
}

// Snapshot converts s into its serializable form.
func (s TimerState) Snapshot() Snapshot {
	snap := Snapshot{Kind: s.Kind.String()}
	switch s.Kind {
	case KindRunning:
		snap.StartUnixMs = s.StartedAt.UnixMilli()
		snap.OriginalMs = s.OriginalDuration.Milliseconds()
		snap.DurationMs = s.Duration.Milliseconds()
	case KindPaused:
		snap.RemainingMs = s.Frozen.Milliseconds()
	case KindIdle:
		snap.ConfiguredMs = s.Configured.Milliseconds()
	}
	return snap
}

// FromSnapshot rebuilds a TimerState. Unknown kinds and negative fields are
// rejected with ErrInvalidSnapshot.
func FromSnapshot(snap Snapshot) (TimerState, error) {
	if snap.OriginalMs < 0 || snap.DurationMs < 0 || snap.RemainingMs < 0 || snap.ConfiguredMs < 0 {
		return TimerState{}, fmt.Errorf("%w: negative duration in %+v", ErrInvalidSnapshot, snap)
	}
	switch snap.Kind {
	case "running":
		return Running(
			time.UnixMilli(snap.StartUnixMs),
			time.Duration(snap.OriginalMs)*time.Millisecond,
			time.Duration(snap.DurationMs)*time.Millisecond,
		), nil
	case "paused":
		return Paused(time.Duration(snap.RemainingMs) * time.Millisecond), nil
	case "idle":
		return Idle(time.Duration(snap.ConfiguredMs) * time.Millisecond), nil
	default:
		return TimerState{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidSnapshot, snap.Kind)
	}
}
