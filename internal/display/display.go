// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] has two screens: a keypad for entering a duration, and the
// timer screen with the segment ring, the readout and the start/pause and
// reset buttons. Notices are printed above the rendered area via
// Program.Println, so they never garble the view.
package display

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ringtimer/internal/domain"
	"github.com/hammamikhairi/ringtimer/internal/engine"
	"github.com/hammamikhairi/ringtimer/internal/frame"
	"github.com/hammamikhairi/ringtimer/internal/keypad"
	"github.com/hammamikhairi/ringtimer/internal/logger"
	"github.com/hammamikhairi/ringtimer/internal/readout"
)

// Compile-time interface check.
var _ domain.Notifier = (*UI)(nil)

// ── Styles ───────────────────────────────────────────────────────

var (
	padDigitsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8")).
			Bold(true)

	padKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			Padding(0, 2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	startEnabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#bae6fd")).
				Bold(true)

	startDisabledStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#52525b"))

	// Start/resume: filled. Pause: inverted.
	buttonFilledStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#bae6fd")).
				Foreground(lipgloss.Color("#18181b")).
				Bold(true).
				Padding(0, 3)

	buttonInvertedStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#d4d4d8")).
				Foreground(lipgloss.Color("#0369a1")).
				Bold(true).
				Padding(0, 3)

	resetButtonStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#3f3f46")).
				Foreground(lipgloss.Color("#e4e4e7")).
				Padding(0, 1)

	readoutStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4e7"))

	centisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)
)

// ── UI ───────────────────────────────────────────────────────────

// NewEngineFunc builds the engine for a configured duration. It is the
// keypad's onTimerSet.
type NewEngineFunc func(configured time.Duration) *engine.Engine

// Option configures the UI.
type Option func(*UI)

// WithFrameInterval sets how often the view redraws.
func WithFrameInterval(d time.Duration) Option {
	return func(u *UI) {
		u.frame = d
	}
}

// WithInitialDuration opens the timer screen straight away.
func WithInitialDuration(d time.Duration) Option {
	return func(u *UI) {
		u.initial = d
	}
}

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call
// [UI.Notify] and [UI.Println] at any time.
type UI struct {
	program   *tea.Program
	newEngine NewEngineFunc
	log       *logger.Logger
	frame     time.Duration
	initial   time.Duration
	done      atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI(newEngine NewEngineFunc, log *logger.Logger, opts ...Option) *UI {
	u := &UI{
		newEngine: newEngine,
		log:       log,
		frame:     frame.DefaultInterval,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Println prints a line above the view. Thread-safe. Falls back to
// fmt.Println when the program is not running.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Notify prints a highlighted notice above the view.
func (u *UI) Notify(ctx context.Context, message string) error {
	u.log.Debug("notify: %s", message)
	u.Println(noticeStyle.Render("  " + message))
	return nil
}

// Run starts the Bubble Tea event loop. Blocks until the user quits or ctx
// is cancelled.
func (u *UI) Run(ctx context.Context) error {
	m := newModel(ctx, u.newEngine, u.frame, u.log)
	if u.initial > 0 {
		m.openTimer(u.initial)
	}

	u.program = tea.NewProgram(m, tea.WithContext(ctx))
	final, err := u.program.Run()
	u.done.Store(true)

	// Make sure the engine saved its state even if we were killed.
	if fm, ok := final.(model); ok {
		fm.closeTimer()
	}
	return err
}

// ── Key bindings ─────────────────────────────────────────────────

type keypadKeys struct {
	Digit     key.Binding
	Backspace key.Binding
	Start     key.Binding
	Quit      key.Binding
}

func (k keypadKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Digit, k.Backspace, k.Start, k.Quit}
}

func (k keypadKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

type timerKeys struct {
	Toggle key.Binding
	Reset  key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func (k timerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Back, k.Quit}
}

func (k timerKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func defaultKeypadKeys() keypadKeys {
	return keypadKeys{
		Digit:     key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("0-9", "type")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
		Start:     key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter", "start")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func defaultTimerKeys() timerKeys {
	return timerKeys{
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start")),
		Reset:  key.NewBinding(key.WithKeys("r", "backspace"), key.WithHelp("r", "reset")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "keypad")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ── Bubble Tea model ─────────────────────────────────────────────

type screen int

const (
	screenKeypad screen = iota
	screenTimer
)

type model struct {
	ctx       context.Context
	newEngine NewEngineFunc
	log       *logger.Logger
	frame     time.Duration

	screen screen
	pad    keypad.Pad
	timer  *timerSession
	size   *readout.SizeTween

	padKeys   keypadKeys
	timerKeys timerKeys
	help      help.Model

	width int
	title string
}

// timerSession is the engine behind the timer screen and its Run goroutine.
type timerSession struct {
	eng    *engine.Engine
	cancel context.CancelFunc
	done   chan struct{}
}

// Messages.
type frameMsg time.Time

func newModel(ctx context.Context, newEngine NewEngineFunc, frameInterval time.Duration, log *logger.Logger) model {
	return model{
		ctx:       ctx,
		newEngine: newEngine,
		log:       log,
		frame:     frameInterval,
		size:      readout.NewSizeTween(readout.DefaultSizeDuration),
		padKeys:   defaultKeypadKeys(),
		timerKeys: defaultTimerKeys(),
		help:      help.New(),
		width:     termWidth(),
	}
}

func (m model) Init() tea.Cmd {
	return frameCmd(m.frame)
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// openTimer is onTimerSet: build the engine and start its Run loop.
func (m *model) openTimer(d time.Duration) {
	eng := m.newEngine(d)
	ctx, cancel := context.WithCancel(m.ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := eng.Run(ctx); err != nil {
			m.log.Error("timer engine: %v", err)
		}
	}()
	<-eng.Ready()

	m.timer = &timerSession{eng: eng, cancel: cancel, done: done}
	m.screen = screenTimer
	m.size = readout.NewSizeTween(readout.DefaultSizeDuration)
	m.log.Info("timer screen opened for %s", d)
}

// closeTimer stops the engine and waits for it to save its state.
func (m *model) closeTimer() {
	if m.timer == nil {
		return
	}
	m.timer.cancel()
	<-m.timer.done
	m.timer = nil
	m.screen = screenKeypad
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.screen == screenTimer {
			return m.updateTimer(msg)
		}
		return m.updateKeypad(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		if m.timer != nil {
			m.size.Target(readout.Format(m.timer.eng.Display()).FontSize, time.Time(msg))
		}
		cmds := []tea.Cmd{frameCmd(m.frame)}
		if title := m.titleStr(); title != m.title {
			m.title = title
			cmds = append(cmds, tea.SetWindowTitle(title))
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m model) updateKeypad(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.padKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.padKeys.Digit):
		m.pad.Press(int(msg.String()[0] - '0'))
	case key.Matches(msg, m.padKeys.Backspace):
		m.pad.Backspace()
	case key.Matches(msg, m.padKeys.Start):
		if !m.pad.Enabled() {
			return m, nil
		}
		m.openTimer(m.pad.Duration())
	}
	return m, nil
}

func (m model) updateTimer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.timerKeys.Quit):
		m.closeTimer()
		return m, tea.Quit
	case key.Matches(msg, m.timerKeys.Back):
		// Leave without resetting: the engine saves its state, and the
		// kept pad reopens the same duration.
		m.closeTimer()
	case key.Matches(msg, m.timerKeys.Toggle):
		m.timer.eng.Toggle()
	case key.Matches(msg, m.timerKeys.Reset):
		if exit := m.timer.eng.Reset(); exit {
			m.closeTimer()
			m.pad.Clear()
		}
	}
	return m, nil
}

func (m model) titleStr() string {
	if m.screen != screenTimer || m.timer == nil {
		return "ringtimer"
	}
	return "ringtimer · " + readout.Format(m.timer.eng.Display()).String()
}

func (m model) View() string {
	if m.screen == screenTimer && m.timer != nil {
		return m.viewTimer()
	}
	return m.viewKeypad()
}

func (m model) viewKeypad() string {
	width := m.width
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
	}

	var rows []string
	rows = append(rows, "", center(padDigitsStyle.Render(m.pad.String())+"   "+padKeyStyle.Render("⌫")))
	rows = append(rows, center(dividerStyle.Render(strings.Repeat("─", 28))), "")

	for i := 0; i < 3; i++ {
		var keys []string
		for j := 1; j <= 3; j++ {
			keys = append(keys, padKeyStyle.Render(fmt.Sprint(i*3+j)))
		}
		rows = append(rows, center(lipgloss.JoinHorizontal(lipgloss.Top, keys...)), "")
	}
	rows = append(rows, center(padKeyStyle.Render("0")), "")

	start := startDisabledStyle.Render("▶  start")
	if m.pad.Enabled() {
		start = startEnabledStyle.Render("▶  start")
	}
	rows = append(rows, center(start), "")

	keys := m.padKeys
	keys.Start.SetEnabled(m.pad.Enabled())
	rows = append(rows, center(m.help.View(keys)))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m model) viewTimer() string {
	eng := m.timer.eng
	state := eng.State()
	now := time.Now()

	r := readout.Format(eng.Display())
	tier := readout.NearestTier(m.size.Value(now))

	ring := renderRing(eng.Segments(), renderReadout(r, tier))

	button := buttonFilledStyle.Render("START")
	if state.IsRunning() {
		button = buttonInvertedStyle.Render("PAUSE")
	}
	resetIcon := "↻"
	if state.IsIdle() {
		resetIcon = "✕"
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, button, "   ", resetButtonStyle.Render(resetIcon))

	keys := m.timerKeys
	if state.IsRunning() {
		keys.Toggle.SetHelp("space", "pause")
	}
	if state.IsIdle() {
		keys.Reset.SetHelp("r", "clear")
	}

	width := m.width
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		center(ring),
		"",
		center(buttons),
		"",
		center(m.help.View(keys)),
	)
}
