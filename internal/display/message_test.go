package display

import (
	"testing"
	"time"

	"github.com/wproctor/flightsign/internal/tracker"
)

var renderTime = time.Date(2026, 3, 2, 22, 30, 0, 0, time.UTC)

// TestComposeTracking verifies the active message layouts.
func TestComposeTracking(t *testing.T) {
	t.Run("Full route and position", func(t *testing.T) {
		snap := tracker.Snapshot{
			Ident:    "UAL123",
			Position: &tracker.Position{Altitude: 34000, GroundSpeed: 450},
			Schedule: &tracker.Schedule{Origin: "SFO", Destination: "JFK"},
		}
		got := Compose(tracker.ModeTracking, snap, renderTime, "")
		want := "UAL123   SFO > JFK   34000FT"
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})

	t.Run("Origin only", func(t *testing.T) {
		snap := tracker.Snapshot{
			Ident:    "UAL123",
			Position: &tracker.Position{Altitude: 34000, GroundSpeed: 450},
			Schedule: &tracker.Schedule{Origin: "SFO"},
		}
		got := Compose(tracker.ModeTracking, snap, renderTime, "")
		want := "UAL123   (FROM:SFO)   34000FT"
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})

	t.Run("Destination only", func(t *testing.T) {
		snap := tracker.Snapshot{
			Ident:    "UAL123",
			Schedule: &tracker.Schedule{Destination: "JFK"},
		}
		got := Compose(tracker.ModeTracking, snap, renderTime, "")
		want := "UAL123   (TO:JFK)"
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})

	t.Run("No route packs clock and speed", func(t *testing.T) {
		snap := tracker.Snapshot{
			Ident:    "UAL123",
			Position: &tracker.Position{Altitude: 34000, GroundSpeed: 450},
		}
		got := Compose(tracker.ModeTracking, snap, renderTime, "")
		want := "UAL123 10:30 34000FT 450KT"
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})

	t.Run("No data at all still shows ident and clock", func(t *testing.T) {
		snap := tracker.Snapshot{Ident: "ual123"}
		got := Compose(tracker.ModeTracking, snap, renderTime, "")
		want := "UAL123 10:30"
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})
}

// TestComposeStandby verifies the idle message with and without weather.
func TestComposeStandby(t *testing.T) {
	t.Run("With weather", func(t *testing.T) {
		snap := tracker.Snapshot{
			Ident:   "UAL123",
			Weather: &tracker.Weather{Condition: "Clear", TemperatureF: 72},
		}
		got := Compose(tracker.ModeStandby, snap, renderTime, "")
		want := "03/02/26  10:30  CLEAR  72F"
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})

	t.Run("Without weather", func(t *testing.T) {
		got := Compose(tracker.ModeStandby, tracker.Snapshot{Ident: "UAL123"}, renderTime, "")
		want := "03/02/26  10:30"
		if got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	})
}

func TestComposeNotFound(t *testing.T) {
	got := Compose(tracker.ModeNotFound, tracker.Snapshot{Ident: "ual123"}, renderTime, "")
	want := "FLIGHT UAL123 NOT FOUND"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestComposeCustomClockFormat(t *testing.T) {
	snap := tracker.Snapshot{Ident: "UAL123"}
	got := Compose(tracker.ModeTracking, snap, renderTime, "15:04")
	want := "UAL123 22:30"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
