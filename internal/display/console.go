package display

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wproctor/flightsign/internal/tracker"
)

// Console writes the composed sign message to a terminal, one line per
// tick, colored by mode. It stands in for the LED matrix when the daemon
// runs on a desktop.
type Console struct {
	out         io.Writer
	clockFormat string
	now         func() time.Time

	trackingStyle lipgloss.Style
	standbyStyle  lipgloss.Style
	notFoundStyle lipgloss.Style
	cacheStyle    lipgloss.Style
}

// NewConsole creates a Console writing to stdout.
func NewConsole(clockFormat string) *Console {
	return &Console{
		out:           os.Stdout,
		clockFormat:   clockFormat,
		now:           time.Now,
		trackingStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		standbyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		notFoundStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		cacheStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	}
}

// Render implements tracker.Display.
func (c *Console) Render(mode tracker.DisplayMode, snap tracker.Snapshot) error {
	message := Compose(mode, snap, c.now(), c.clockFormat)

	var styled string
	switch mode {
	case tracker.ModeNotFound:
		styled = c.notFoundStyle.Render(message)
	case tracker.ModeStandby:
		styled = c.standbyStyle.Render(message)
	default:
		if snap.Schedule != nil && snap.Schedule.FromCache {
			styled = c.cacheStyle.Render(message)
		} else {
			styled = c.trackingStyle.Render(message)
		}
	}

	if _, err := fmt.Fprintln(c.out, styled); err != nil {
		return fmt.Errorf("failed to write display output: %w", err)
	}
	return nil
}
