package display

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/hammamikhairi/ringtimer/internal/domain"
	"github.com/hammamikhairi/ringtimer/internal/engine"
	"github.com/hammamikhairi/ringtimer/internal/frame"
	"github.com/hammamikhairi/ringtimer/internal/logger"
	"github.com/hammamikhairi/ringtimer/internal/readout"
	"github.com/hammamikhairi/ringtimer/internal/ring"
	"github.com/hammamikhairi/ringtimer/internal/storage"
	"github.com/hammamikhairi/ringtimer/internal/timer"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

func setupModel(t *testing.T) model {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	newEngine := func(d time.Duration) *engine.Engine {
		return engine.New(d, ring.New(ring.DefaultSegments, white), store, log,
			engine.WithDriverOptions(timer.WithFrameSource(frame.NewInterval(time.Millisecond))),
		)
	}
	return newModel(context.Background(), newEngine, time.Millisecond, log)
}

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestKeypadToTimerAndBack(t *testing.T) {
	m := setupModel(t)
	t.Cleanup(func() { m.closeTimer() })

	m = send(t, m, runes("1"), runes("3"), runes("0"))
	if got := m.pad.Duration(); got != 90*time.Second {
		t.Fatalf("typed duration = %s, want 1m30s", got)
	}
	if !strings.Contains(m.View(), "00 : 01 : 30") {
		t.Fatal("keypad view does not show the typed digits")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenTimer || m.timer == nil {
		t.Fatal("enter did not open the timer screen")
	}
	if got := m.timer.eng.Configured(); got != 90*time.Second {
		t.Fatalf("engine configured with %s", got)
	}
	if !strings.Contains(m.View(), "START") {
		t.Fatal("idle timer should offer START")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.timer.eng.State().IsRunning() {
		t.Fatalf("space did not start the timer: %s", m.timer.eng.State())
	}
	if !strings.Contains(m.View(), "PAUSE") {
		t.Fatal("running timer should offer PAUSE")
	}

	m = send(t, m, runes("r"))
	if !m.timer.eng.State().IsIdle() {
		t.Fatalf("reset did not return to idle: %s", m.timer.eng.State())
	}

	m = send(t, m, runes("r"))
	if m.screen != screenKeypad || m.timer != nil {
		t.Fatal("reset from idle should go back to the keypad")
	}
	if m.pad.Enabled() {
		t.Fatal("keypad should be cleared after leaving the timer")
	}
}

func TestBackKeepsPausedTimerForSameDuration(t *testing.T) {
	m := setupModel(t)
	t.Cleanup(func() { m.closeTimer() })

	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	m = send(t, m, runes("1"), runes("3"), runes("0"), tea.KeyMsg{Type: tea.KeyEnter}, space)
	if !m.timer.eng.State().IsRunning() {
		t.Fatalf("timer did not start: %s", m.timer.eng.State())
	}

	time.Sleep(20 * time.Millisecond)
	m = send(t, m, space)
	paused := m.timer.eng.State()
	if !paused.IsPaused() || paused.Frozen >= 90*time.Second {
		t.Fatalf("expected a paused timer with time used, got %s", paused)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenKeypad || m.timer != nil {
		t.Fatal("esc should go back to the keypad")
	}
	if got := m.pad.Duration(); got != 90*time.Second {
		t.Fatalf("pad lost its digits: %s", got)
	}

	// Saved state keeps millisecond precision.
	want := domain.Paused(paused.Frozen.Truncate(time.Millisecond))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.timer == nil {
		t.Fatal("enter did not reopen the timer screen")
	}
	if got := m.timer.eng.State(); !got.Equal(want) {
		t.Fatalf("reopened timer is %s, want %s", got, want)
	}
	if got := m.timer.eng.Display(); got != want.Frozen {
		t.Fatalf("display after reopening = %s, want %s", got, want.Frozen)
	}
}

func TestEnterWithEmptyPadStaysOnKeypad(t *testing.T) {
	m := setupModel(t)
	m = send(t, m, runes("0"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenKeypad || m.timer != nil {
		t.Fatal("start must be disabled for a zero duration")
	}
}

func TestBackspaceOnKeypad(t *testing.T) {
	m := setupModel(t)
	m = send(t, m, runes("4"), runes("5"), tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.pad.Mask(); got != 4 {
		t.Fatalf("mask = %d, want 4", got)
	}
}

func TestRenderRingDrawsEverySegment(t *testing.T) {
	colors := make([]colorful.Color, 8)
	for i := range colors {
		colors[i] = white
	}
	out := renderRing(colors, []string{"01:05"})

	if got := strings.Count(out, ringGlyph); got != 8 {
		t.Fatalf("drew %d segments, want 8", got)
	}
	if lines := strings.Split(out, "\n"); len(lines) != ringRows {
		t.Fatalf("ring has %d rows, want %d", len(lines), ringRows)
	}
	if !strings.Contains(out, "01:05") {
		t.Fatal("readout missing from the ring")
	}
}

func TestRenderReadoutTiers(t *testing.T) {
	hms := renderReadout(readout.Format(time.Hour), readout.FontSmall)
	if len(hms) != 1 || !strings.Contains(hms[0], "01:00:00") {
		t.Fatalf("small tier = %q", hms)
	}

	ms := renderReadout(readout.Format(65*time.Second), readout.FontMedium)
	if len(ms) != 1 || !strings.Contains(ms[0], "0 1 : 0 5") {
		t.Fatalf("medium tier = %q", ms)
	}

	secs := renderReadout(readout.Format(9999*time.Millisecond), readout.FontHuge)
	if len(secs) != 5 {
		t.Fatalf("huge tier should be five rows, got %d", len(secs))
	}
	if !strings.Contains(secs[4], ":99") {
		t.Fatalf("centiseconds missing from last row: %q", secs[4])
	}
	w := lipgloss.Width(secs[0])
	for i, l := range secs {
		if lipgloss.Width(l) != w {
			t.Fatalf("row %d width %d, want %d", i, lipgloss.Width(l), w)
		}
	}
}
