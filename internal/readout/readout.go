// Package readout decides how a remaining duration is shown: which
// components, in what layout, at what font size.
package readout

import (
	"fmt"
	"math"
	"time"
)

// Layout selects which components the readout shows.
type Layout int

const (
	// LayoutHMS shows HH:MM:SS, from one hour up.
	LayoutHMS Layout = iota
	// LayoutMS shows MM:SS, from ten seconds up.
	LayoutMS
	// LayoutSeconds shows the seconds with the centiseconds beside them.
	LayoutSeconds
)

// String returns a human-readable layout.
func (l Layout) String() string {
	switch l {
	case LayoutHMS:
		return "h:m:s"
	case LayoutMS:
		return "m:s"
	case LayoutSeconds:
		return "s.cc"
	default:
		return "unknown"
	}
}

// Thresholds between layouts.
const (
	HourThreshold   = time.Hour
	SecondThreshold = 10 * time.Second
)

// Font size tiers.
const (
	FontSmall  = 24
	FontMedium = 32
	FontLarge  = 36
	FontHuge   = 54
)

// Tiers lists the font sizes from smallest to largest.
var Tiers = []int{FontSmall, FontMedium, FontLarge, FontHuge}

// Parts are the components of a duration. Whole days fold into Hours.
type Parts struct {
	Hours   int
	Minutes int
	Seconds int
	Centis  int
}

// Decompose splits d into hours, minutes, seconds and hundredths. Negative
// durations count as zero.
func Decompose(d time.Duration) Parts {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return Parts{
		Hours:   int(ms / 3_600_000),
		Minutes: int(ms / 60_000 % 60),
		Seconds: int(ms / 1000 % 60),
		Centis:  int(ms % 1000 / 10),
	}
}

// Readout is a formatted remaining time.
type Readout struct {
	Layout   Layout
	Parts    Parts
	Text     string // main digits
	Centis   string // two-digit hundredths, only for LayoutSeconds
	FontSize int
}

// Format builds the readout for d.
func Format(d time.Duration) Readout {
	p := Decompose(d)
	r := Readout{Parts: p, FontSize: FontSizeFor(p)}

	switch {
	case d >= HourThreshold:
		r.Layout = LayoutHMS
		r.Text = fmt.Sprintf("%s:%s:%s", pair(p.Hours), pair(p.Minutes), pair(p.Seconds))
	case d >= SecondThreshold:
		r.Layout = LayoutMS
		r.Text = fmt.Sprintf("%s:%s", pair(p.Minutes), pair(p.Seconds))
	default:
		r.Layout = LayoutSeconds
		r.Text = pair(p.Seconds)
		r.Centis = pair(p.Centis)
	}
	return r
}

// String returns the readout as plain text, e.g. "01:05" or "09:99".
func (r Readout) String() string {
	if r.Layout == LayoutSeconds {
		return r.Text + ":" + r.Centis
	}
	return r.Text
}

// FontSizeFor picks the size tier for p: the fewer components are showing,
// the larger the digits.
func FontSizeFor(p Parts) int {
	switch {
	case p.Hours > 0:
		return FontSmall
	case p.Minutes > 0:
		return FontMedium
	case p.Seconds >= 10:
		return FontLarge
	default:
		return FontHuge
	}
}

// NearestTier rounds an animated size to the closest tier.
func NearestTier(size float64) int {
	best := Tiers[0]
	for _, t := range Tiers[1:] {
		if math.Abs(float64(t)-size) < math.Abs(float64(best)-size) {
			best = t
		}
	}
	return best
}

// pair renders n as two zero-padded digits. Values past 99 keep all their
// digits.
func pair(n int) string {
	return fmt.Sprintf("%02d", n)
}
