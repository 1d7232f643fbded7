// Package window decides whether tracking is permitted at a given wall-clock
// time. The sign only runs during configured hours (e.g. 08:00-20:00) so the
// provider budget is not burned overnight while nobody is watching.
package window

import "time"

// Window is an operational time-of-day range with an optional day-of-week
// restriction. It is pure configuration: all evaluation takes the current
// time as an explicit parameter, so the type is trivially testable.
type Window struct {
	// StartHour is the opening hour (0-23). The window includes the start.
	StartHour int

	// StartMinute is the opening minute (0-59).
	StartMinute int

	// EndHour is the closing hour (0-23). The window excludes the end.
	EndHour int

	// EndMinute is the closing minute (0-59).
	EndMinute int

	// Days restricts the window to specific weekdays.
	// Empty means every day. For a window that wraps midnight, the
	// applicable day is the day the evaluated instant falls on.
	Days []time.Weekday
}

// Contains reports whether now falls inside the window.
//
// The range is [start, end): the opening minute is inside, the closing
// minute is outside. A window whose start is after its end wraps midnight,
// so 22:00-06:00 covers 23:59 and 05:59 but not 12:00.
func (w Window) Contains(now time.Time) bool {
	if !w.dayAllowed(now.Weekday()) {
		return false
	}

	minute := now.Hour()*60 + now.Minute()
	start := w.StartHour*60 + w.StartMinute
	end := w.EndHour*60 + w.EndMinute

	if start == end {
		// Degenerate zero-length window: never open.
		return false
	}

	if start < end {
		return minute >= start && minute < end
	}

	// Wraps midnight
	return minute >= start || minute < end
}

// NextOpen returns the next instant at or after now when the window opens.
// If now is already inside the window, it returns now unchanged. The result
// is used by the poll loop to log when tracking will resume.
func (w Window) NextOpen(now time.Time) time.Time {
	if w.Contains(now) {
		return now
	}

	// Walk day by day; 8 iterations covers every weekday restriction.
	for day := 0; day < 8; day++ {
		candidate := time.Date(now.Year(), now.Month(), now.Day(),
			w.StartHour, w.StartMinute, 0, 0, now.Location()).AddDate(0, 0, day)

		if candidate.Before(now) {
			continue
		}
		if w.Contains(candidate) {
			return candidate
		}
	}

	// Unreachable for any window that is ever open; fall back to now.
	return now
}

func (w Window) dayAllowed(day time.Weekday) bool {
	if len(w.Days) == 0 {
		return true
	}
	for _, d := range w.Days {
		if d == day {
			return true
		}
	}
	return false
}
