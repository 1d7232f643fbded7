package window

import (
	"testing"
	"time"
)

// at builds a timestamp on a fixed date (Monday 2026-03-02) at the given time.
func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

// TestContains verifies the [start, end) boundary semantics.
func TestContains(t *testing.T) {
	t.Run("Simple daytime window", func(t *testing.T) {
		w := Window{StartHour: 8, EndHour: 9}

		if !w.Contains(at(8, 0)) {
			t.Error("Expected 08:00 inside [08:00, 09:00)")
		}
		if !w.Contains(at(8, 59)) {
			t.Error("Expected 08:59 inside [08:00, 09:00)")
		}
		if w.Contains(at(9, 0)) {
			t.Error("Expected 09:00 outside [08:00, 09:00)")
		}
		if w.Contains(at(7, 59)) {
			t.Error("Expected 07:59 outside [08:00, 09:00)")
		}
	})

	t.Run("Window wrapping midnight", func(t *testing.T) {
		w := Window{StartHour: 22, EndHour: 6}

		if !w.Contains(at(23, 59)) {
			t.Error("Expected 23:59 inside [22:00, 06:00)")
		}
		if !w.Contains(at(5, 59)) {
			t.Error("Expected 05:59 inside [22:00, 06:00)")
		}
		if !w.Contains(at(22, 0)) {
			t.Error("Expected 22:00 inside [22:00, 06:00)")
		}
		if w.Contains(at(6, 0)) {
			t.Error("Expected 06:00 outside [22:00, 06:00)")
		}
		if w.Contains(at(12, 0)) {
			t.Error("Expected 12:00 outside [22:00, 06:00)")
		}
	})

	t.Run("Minute granularity", func(t *testing.T) {
		w := Window{StartHour: 8, StartMinute: 30, EndHour: 20, EndMinute: 15}

		if w.Contains(at(8, 29)) {
			t.Error("Expected 08:29 outside [08:30, 20:15)")
		}
		if !w.Contains(at(8, 30)) {
			t.Error("Expected 08:30 inside [08:30, 20:15)")
		}
		if !w.Contains(at(20, 14)) {
			t.Error("Expected 20:14 inside [08:30, 20:15)")
		}
		if w.Contains(at(20, 15)) {
			t.Error("Expected 20:15 outside [08:30, 20:15)")
		}
	})

	t.Run("Zero-length window never open", func(t *testing.T) {
		w := Window{StartHour: 8, EndHour: 8}
		if w.Contains(at(8, 0)) {
			t.Error("Expected zero-length window to be closed at its start")
		}
	})

	t.Run("Day restriction", func(t *testing.T) {
		// 2026-03-02 is a Monday.
		w := Window{StartHour: 0, EndHour: 24, Days: []time.Weekday{time.Saturday, time.Sunday}}
		if w.Contains(at(12, 0)) {
			t.Error("Expected weekend-only window closed on a Monday")
		}

		w.Days = []time.Weekday{time.Monday}
		if !w.Contains(at(12, 0)) {
			t.Error("Expected Monday-only window open on a Monday")
		}
	})
}

// TestNextOpen verifies the resume-time calculation used for logging.
func TestNextOpen(t *testing.T) {
	t.Run("Already open returns now", func(t *testing.T) {
		w := Window{StartHour: 8, EndHour: 20}
		now := at(10, 0)
		if got := w.NextOpen(now); !got.Equal(now) {
			t.Errorf("Expected %v, got %v", now, got)
		}
	})

	t.Run("Later same day", func(t *testing.T) {
		w := Window{StartHour: 8, EndHour: 20}
		got := w.NextOpen(at(6, 30))
		want := at(8, 0)
		if !got.Equal(want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("After close rolls to next day", func(t *testing.T) {
		w := Window{StartHour: 8, EndHour: 20}
		got := w.NextOpen(at(21, 0))
		want := at(8, 0).AddDate(0, 0, 1)
		if !got.Equal(want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("Day restriction skips to allowed day", func(t *testing.T) {
		// Monday now, window only on Thursday.
		w := Window{StartHour: 8, EndHour: 20, Days: []time.Weekday{time.Thursday}}
		got := w.NextOpen(at(12, 0))
		want := at(8, 0).AddDate(0, 0, 3)
		if !got.Equal(want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})
}
