// Package notify prints timer notices to a plain output stream, for runs
// without the interactive display.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/ringtimer/internal/domain"
	"github.com/hammamikhairi/ringtimer/internal/logger"
	"github.com/hammamikhairi/ringtimer/internal/readout"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

var (
	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))
)

// CLINotifier writes notices and progress lines to an io.Writer.
type CLINotifier struct {
	log *logger.Logger
	out io.Writer
}

// NewCLINotifier creates a notifier writing to out. If out is nil,
// os.Stdout is used.
func NewCLINotifier(log *logger.Logger, out io.Writer) *CLINotifier {
	if out == nil {
		out = os.Stdout
	}
	return &CLINotifier{log: log, out: out}
}

// Notify prints a highlighted notice.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	_, err := fmt.Fprintln(n.out, noticeStyle.Render(message))
	return err
}

// Progress prints the remaining time in readout form.
func (n *CLINotifier) Progress(remaining time.Duration) error {
	_, err := fmt.Fprintln(n.out, progressStyle.Render(readout.Format(remaining).String()))
	return err
}
