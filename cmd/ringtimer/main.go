// RingTimer, a countdown timer with a segmented ring for the terminal.
//
// Usage:
//
//	ringtimer [-verbose] [-quiet] [-duration 1m30s] [-segments 40]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/hammamikhairi/ringtimer/internal/config"
	"github.com/hammamikhairi/ringtimer/internal/display"
	"github.com/hammamikhairi/ringtimer/internal/domain"
	"github.com/hammamikhairi/ringtimer/internal/engine"
	"github.com/hammamikhairi/ringtimer/internal/frame"
	"github.com/hammamikhairi/ringtimer/internal/logger"
	"github.com/hammamikhairi/ringtimer/internal/notify"
	"github.com/hammamikhairi/ringtimer/internal/ring"
	"github.com/hammamikhairi/ringtimer/internal/storage"
	"github.com/hammamikhairi/ringtimer/internal/timer"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cfg, err := config.Default().FromEnv(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	cfg, err = cfg.FromFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	logOut, closeLog := openLogOutput(cfg.LogFile, os.Stderr)
	defer closeLog()

	// Third-party libs that use the default log package go to the same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(cfg.LogLevel, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := storage.NewMemoryStore(log.With("store"))
	start, end := cfg.Colors()

	newEngine := func(configured time.Duration, notifier domain.Notifier) *engine.Engine {
		r := ring.New(cfg.Segments, start)
		return engine.New(configured, r, store, log.With("engine"),
			engine.WithNotifier(notifier),
			engine.WithDriverOptions(
				timer.WithColors(start, end),
				timer.WithFrameSource(frame.NewInterval(cfg.FrameInterval)),
			),
		)
	}

	log.Info("starting: segments=%d frame=%s", cfg.Segments, cfg.FrameInterval)

	if !term.IsTerminal(os.Stdout.Fd()) {
		if cfg.Duration <= 0 {
			fmt.Fprintln(os.Stderr, "error: no terminal; pass -duration to run without the display")
			os.Exit(2)
		}
		cli := notify.NewCLINotifier(log.With("notify"), os.Stdout)
		runHeadless(ctx, newEngine(cfg.Duration, cli), cli, log)
		return
	}

	var ui *display.UI
	ui = display.NewUI(
		func(configured time.Duration) *engine.Engine { return newEngine(configured, ui) },
		log.With("display"),
		display.WithFrameInterval(cfg.FrameInterval),
		display.WithInitialDuration(cfg.Duration),
	)

	// Bubble Tea owns the terminal; blocks until quit.
	if err := ui.Run(ctx); err != nil {
		log.Error("display: %v", err)
	}
}

// openLogOutput opens path for appending, creating its directory. An empty
// path or "stderr" logs to the console, as does any failure, which is
// reported on warn.
func openLogOutput(path string, warn io.Writer) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(warn, "warning: could not create log directory %s: %v\n", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(warn, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}

// runHeadless starts eng once and prints the remaining time every second
// until the countdown completes or ctx is cancelled.
func runHeadless(ctx context.Context, eng *engine.Engine, cli *notify.CLINotifier, log *logger.Logger) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := eng.Run(ctx); err != nil {
			log.Error("engine: %v", err)
		}
	}()
	defer func() {
		cancel()
		<-done
	}()

	select {
	case <-eng.Ready():
	case <-ctx.Done():
		return
	}
	if !eng.State().IsRunning() {
		eng.Toggle()
	}

	progress := time.NewTicker(time.Second)
	defer progress.Stop()
	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()

	cli.Progress(eng.Display())
	for {
		select {
		case <-ctx.Done():
			return
		case <-progress.C:
			cli.Progress(eng.Display())
		case <-poll.C:
			if eng.State().IsIdle() {
				// Completion notice is sent from the engine's own loop.
				return
			}
		}
	}
}
