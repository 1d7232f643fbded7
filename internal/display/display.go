// Package display turns tick outcomes into sign text and pushes it to an
// output surface. The composition rules target a 64x32 LED matrix: short
// codes, no labels for absent data, 12-hour clock.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/wproctor/flightsign/internal/tracker"
)

// DefaultClockFormat is the 12-hour clock shown on the sign.
const DefaultClockFormat = "03:04"

// ClockFormat maps the configured time format name ("12H" or "24H") to a
// time layout string.
func ClockFormat(name string) string {
	if name == "24H" {
		return "15:04"
	}
	return DefaultClockFormat
}

// Compose builds the scroll message for one tick. Absent snapshot fields
// are simply omitted; the message never shows placeholder text like "N/A".
func Compose(mode tracker.DisplayMode, snap tracker.Snapshot, now time.Time, clockFormat string) string {
	if clockFormat == "" {
		clockFormat = DefaultClockFormat
	}

	switch mode {
	case tracker.ModeNotFound:
		return fmt.Sprintf("FLIGHT %s NOT FOUND", strings.ToUpper(snap.Ident))
	case tracker.ModeStandby:
		return composeStandby(snap, now, clockFormat)
	default:
		return composeTracking(snap, now, clockFormat)
	}
}

// composeTracking renders the active message: ident, route, then metrics.
// With a route the segments get wide triple-space separators; without one
// the clock fills the route's slot and everything packs tighter.
func composeTracking(snap tracker.Snapshot, now time.Time, clockFormat string) string {
	parts := []string{strings.ToUpper(snap.Ident)}

	route := routeSegment(snap.Schedule)
	if route != "" {
		parts = append(parts, route)
	} else {
		parts = append(parts, now.Format(clockFormat))
	}

	if snap.Position != nil {
		parts = append(parts, fmt.Sprintf("%dFT", snap.Position.Altitude))
		if route == "" {
			parts = append(parts, fmt.Sprintf("%dKT", snap.Position.GroundSpeed))
		}
	}

	if route == "" {
		return strings.Join(parts, " ")
	}
	return strings.Join(parts, "   ")
}

// composeStandby renders the idle message: date, clock, and the latest
// weather reading when one is on hand.
func composeStandby(snap tracker.Snapshot, now time.Time, clockFormat string) string {
	stamp := now.Format("01/02/06") + "  " + now.Format(clockFormat)
	if snap.Weather == nil {
		return stamp
	}
	return fmt.Sprintf("%s  %s  %dF",
		stamp, strings.ToUpper(snap.Weather.Condition), snap.Weather.TemperatureF)
}

// routeSegment renders the origin/destination pair, degrading to a one-sided
// form when only half the route is known.
func routeSegment(sched *tracker.Schedule) string {
	if sched == nil {
		return ""
	}
	switch {
	case sched.Origin != "" && sched.Destination != "":
		return fmt.Sprintf("%s > %s", sched.Origin, sched.Destination)
	case sched.Origin != "":
		return fmt.Sprintf("(FROM:%s)", sched.Origin)
	case sched.Destination != "":
		return fmt.Sprintf("(TO:%s)", sched.Destination)
	default:
		return ""
	}
}
