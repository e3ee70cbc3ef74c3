// Package keypad implements duration entry as typed on a phone timer: digits
// shift in from the right into HH MM SS, up to six of them.
package keypad

import (
	"fmt"
	"time"
)

// MaxDigits is the number of digits the pad accepts.
const MaxDigits = 6

// Pad holds the typed digits as a packed decimal mask, e.g. typing 1,3,0
// gives 130 which reads as 00:01:30.
type Pad struct {
	mask int
}

// Press appends digit d. Ignored once the pad is full or d is not 0-9.
func (p *Pad) Press(d int) bool {
	if d < 0 || d > 9 || p.mask >= 100_000 {
		return false
	}
	if p.mask == 0 && d == 0 {
		// Leading zeros do not take a slot.
		return true
	}
	p.mask = p.mask*10 + d
	return true
}

// Backspace drops the last digit.
func (p *Pad) Backspace() { p.mask /= 10 }

// Clear empties the pad.
func (p *Pad) Clear() { p.mask = 0 }

// Mask returns the packed digits.
func (p *Pad) Mask() int { return p.mask }

// Fields splits the mask into the typed hours, minutes and seconds. Fields
// may exceed 59; "90" seconds means ninety seconds.
func (p *Pad) Fields() (hours, minutes, seconds int) {
	return p.mask / 10_000, p.mask / 100 % 100, p.mask % 100
}

// Duration converts the typed fields into a duration.
func (p *Pad) Duration() time.Duration {
	h, m, s := p.Fields()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// Enabled reports whether there is anything to start.
func (p *Pad) Enabled() bool { return p.mask > 0 }

// String renders the pad as "HH : MM : SS".
func (p *Pad) String() string {
	h, m, s := p.Fields()
	return fmt.Sprintf("%02d : %02d : %02d", h, m, s)
}
