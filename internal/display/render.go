package display

import (
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/hammamikhairi/ringtimer/internal/readout"
)

// Ring geometry in terminal cells. Cells are about twice as tall as they
// are wide, so the horizontal radius is doubled.
const (
	ringRadius = 8
	ringRows   = 2*ringRadius + 1
	ringCols   = 4*ringRadius + 1
	ringGlyph  = "●"
)

// renderRing draws one glyph per segment, clockwise from twelve o'clock,
// and lays the readout lines over the middle.
func renderRing(colors []colorful.Color, middle []string) string {
	grid := make([][]string, ringRows)
	for y := range grid {
		grid[y] = make([]string, ringCols)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	n := len(colors)
	for i, c := range colors {
		theta := 2 * math.Pi * float64(i) / float64(n)
		x := ringCols/2 + int(math.Round(2*ringRadius*math.Sin(theta)))
		y := ringRows/2 - int(math.Round(ringRadius*math.Cos(theta)))
		grid[y][x] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Clamped().Hex())).Render(ringGlyph)
	}

	bw := 0
	for _, l := range middle {
		if w := lipgloss.Width(l); w > bw {
			bw = w
		}
	}
	by := ringRows/2 - len(middle)/2
	bx := ringCols/2 - bw/2
	if bx < 0 {
		bx = 0
	}

	lines := make([]string, ringRows)
	for y, row := range grid {
		i := y - by
		if i < 0 || i >= len(middle) || bx+bw > ringCols {
			lines[y] = strings.Join(row, "")
			continue
		}
		l := middle[i]
		pad := strings.Repeat(" ", bw-lipgloss.Width(l))
		lines[y] = strings.Join(row[:bx], "") + l + pad + strings.Join(row[bx+bw:], "")
	}
	return strings.Join(lines, "\n")
}

// renderReadout turns a readout into lines for the ring's middle, sized by
// tier: small is plain, medium and large are spaced out, huge uses block
// digits.
func renderReadout(r readout.Readout, tier int) []string {
	switch tier {
	case readout.FontSmall:
		return []string{readoutStyle.Render(r.String())}
	case readout.FontMedium:
		return []string{readoutStyle.Render(spaced(r.String()))}
	case readout.FontLarge:
		return []string{readoutStyle.Bold(true).Render(spaced(r.String()))}
	}

	if r.Layout != readout.LayoutSeconds {
		return bigDigits(r.Text)
	}

	// The centiseconds sit on both sides of the seconds, the left copy
	// blank, so the seconds stay centred whatever their size.
	big := bigDigits(r.Text)
	cc := ":" + r.Centis
	blank := strings.Repeat(" ", len(cc))
	out := make([]string, len(big))
	for i, l := range big {
		if i == len(big)-1 {
			out[i] = blank + l + centisStyle.Render(cc)
			continue
		}
		out[i] = blank + l + blank
	}
	return out
}

func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}

var glyphs = map[rune][5]string{
	'0': {"███", "█ █", "█ █", "█ █", "███"},
	'1': {" █ ", "██ ", " █ ", " █ ", "███"},
	'2': {"███", "  █", "███", "█  ", "███"},
	'3': {"███", "  █", "███", "  █", "███"},
	'4': {"█ █", "█ █", "███", "  █", "  █"},
	'5': {"███", "█  ", "███", "  █", "███"},
	'6': {"███", "█  ", "███", "█ █", "███"},
	'7': {"███", "  █", "  █", "  █", "  █"},
	'8': {"███", "█ █", "███", "█ █", "███"},
	'9': {"███", "█ █", "███", "  █", "███"},
	':': {" ", "█", " ", "█", " "},
}

// bigDigits renders s five rows tall. Unknown runes are skipped.
func bigDigits(s string) []string {
	var rows [5][]string
	for _, c := range s {
		g, ok := glyphs[c]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i] = append(rows[i], g[i])
		}
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = readoutStyle.Render(strings.Join(r, " "))
	}
	return out
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
