// Package config gathers runtime settings from defaults, the environment
// (optionally seeded from a .env file) and command-line flags, in that
// order of precedence, lowest first.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/hammamikhairi/ringtimer/internal/frame"
	"github.com/hammamikhairi/ringtimer/internal/logger"
	"github.com/hammamikhairi/ringtimer/internal/ring"
)

// Env var names.
const (
	EnvSegments      = "RINGTIMER_SEGMENTS"
	EnvFrameInterval = "RINGTIMER_FRAME_INTERVAL"
	EnvStartColor    = "RINGTIMER_START_COLOR"
	EnvEndColor      = "RINGTIMER_END_COLOR"
	EnvLogLevel      = "RINGTIMER_LOG_LEVEL"
	EnvLogFile       = "RINGTIMER_LOG_FILE"
)

// Validation errors.
var (
	ErrInvalidSegments = errors.New("segment count must be at least 1")
	ErrInvalidInterval = errors.New("frame interval must be positive")
	ErrInvalidColor    = errors.New("invalid color")
)

// Config holds every runtime setting. Colors are "#rrggbb" hex strings.
// LogFile "stderr" logs to the console. A positive Duration skips the keypad.
type Config struct {
	Segments      int
	FrameInterval time.Duration
	StartColor    string
	EndColor      string
	LogLevel      logger.Level
	LogFile       string
	Duration      time.Duration
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Segments:      ring.DefaultSegments,
		FrameInterval: frame.DefaultInterval,
		StartColor:    "#bae6fd",
		EndColor:      "#27272a",
		LogLevel:      logger.LevelNormal,
		LogFile:       ".ringtimer/ringtimer.log",
	}
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are not an error; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// FromEnv overlays environment variables read through getenv onto c.
func (c Config) FromEnv(getenv func(string) string) (Config, error) {
	if v := getenv(EnvSegments); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%s: %w", EnvSegments, err)
		}
		c.Segments = n
	}
	if v := getenv(EnvFrameInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("%s: %w", EnvFrameInterval, err)
		}
		c.FrameInterval = d
	}
	if v := getenv(EnvStartColor); v != "" {
		c.StartColor = v
	}
	if v := getenv(EnvEndColor); v != "" {
		c.EndColor = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		lvl, err := logger.ParseLevel(v)
		if err != nil {
			return c, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		c.LogLevel = lvl
	}
	if v := getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	return c, nil
}

// FromFlags overlays command-line flags onto c.
func (c Config) FromFlags(fs *flag.FlagSet, args []string) (Config, error) {
	verbose := fs.Bool("verbose", false, "enable verbose/debug logging")
	quiet := fs.Bool("quiet", false, "disable all logging")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "file to write logs to (use \"stderr\" to log to console)")
	fs.IntVar(&c.Segments, "segments", c.Segments, "number of ticks around the ring")
	fs.DurationVar(&c.FrameInterval, "frame", c.FrameInterval, "display refresh interval")
	fs.StringVar(&c.StartColor, "start-color", c.StartColor, "ring color for time still to go")
	fs.StringVar(&c.EndColor, "end-color", c.EndColor, "ring color for elapsed time")
	fs.DurationVar(&c.Duration, "duration", c.Duration, "start with this duration instead of the keypad, e.g. 1m30s")

	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if *verbose {
		c.LogLevel = logger.LevelVerbose
	}
	if *quiet {
		c.LogLevel = logger.LevelOff
	}
	return c, nil
}

// Validate checks the settings for values the timer cannot work with.
func (c Config) Validate() error {
	if c.Segments < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSegments, c.Segments)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidInterval, c.FrameInterval)
	}
	if _, err := ParseColor(c.StartColor); err != nil {
		return err
	}
	if _, err := ParseColor(c.EndColor); err != nil {
		return err
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative: got %s", c.Duration)
	}
	return nil
}

// Colors returns the parsed start and end colors. Call Validate first.
func (c Config) Colors() (start, end colorful.Color) {
	start, _ = ParseColor(c.StartColor)
	end, _ = ParseColor(c.EndColor)
	return start, end
}

// ParseColor parses a "#rrggbb" hex color.
func ParseColor(hex string) (colorful.Color, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w %q: %v", ErrInvalidColor, hex, err)
	}
	return col, nil
}
