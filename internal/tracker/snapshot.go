// Package tracker contains the per-tick decision core of the sign: it
// queries the three providers under budget control, merges whatever came
// back into a snapshot, and picks the display mode.
package tracker

import "time"

// FlightQuery identifies the flight being tracked. It is built once at
// startup from configuration and never mutated.
type FlightQuery struct {
	// Ident is the flight number / callsign (e.g., "UAL123")
	Ident string

	// Date optionally pins the schedule lookup to a departure date
	// ("2006-01-02"). Empty means the most recent matching flight.
	Date string
}

// Position is the live state of the aircraft.
type Position struct {
	Latitude  float64
	Longitude float64

	// Altitude in feet MSL
	Altitude int

	// GroundSpeed in knots
	GroundSpeed int

	// Track in degrees (0-359)
	Track int
}

// Schedule is the flight's route and timing.
type Schedule struct {
	// Origin and Destination are IATA display codes when the airport
	// table knows them, raw ICAO codes otherwise.
	Origin      string
	Destination string

	// DestinationICAO is kept for airport-table lookups (weather coords).
	DestinationICAO string

	// Departure and Arrival are the best known times, estimate preferred
	// over filed schedule. Nil when unknown.
	Departure *time.Time
	Arrival   *time.Time

	// Gate and Terminal at the destination. Empty when unassigned.
	Gate     string
	Terminal string

	// Status is the provider's status string (e.g., "En Route")
	Status string

	// FromCache marks a last-known-good schedule served after a denied
	// or failed lookup.
	FromCache bool
}

// Weather is the current weather at the flight's destination (or, when the
// destination is unknown, at the aircraft's position).
type Weather struct {
	// Condition is the short condition group (e.g., "Clear", "Rain")
	Condition string

	// TemperatureF in degrees Fahrenheit
	TemperatureF int

	// Location names where the reading applies (airport code or "enroute")
	Location string
}

// Snapshot is the composite result of one tick's provider queries.
// Every field is independently present or absent depending on which
// provider call succeeded; a snapshot is rebuilt from scratch each tick.
type Snapshot struct {
	// Ident is the flight number the snapshot describes
	Ident string

	// NotFound is set when the position provider definitively reported
	// that the flight does not exist. Schedule and weather are never
	// populated on a not-found snapshot.
	NotFound bool

	Position *Position
	Schedule *Schedule
	Weather  *Weather

	// Observed is the tick time the snapshot was assembled at
	Observed time.Time
}

// DisplayMode is what the sign should show this tick. It is recomputed
// from scratch every tick and never persisted, so one good tick after any
// number of bad ones immediately restores tracking.
type DisplayMode int

const (
	// ModeNotFound: the position provider does not know the flight
	ModeNotFound DisplayMode = iota

	// ModeStandby: tracking is paused, either because the current time is
	// outside the operational window or because no provider call was
	// permitted by the budget this tick
	ModeStandby

	// ModeTracking: live tracking with whatever fields are present
	ModeTracking
)

// String returns a short label for logs.
func (m DisplayMode) String() string {
	switch m {
	case ModeNotFound:
		return "not-found"
	case ModeStandby:
		return "standby"
	case ModeTracking:
		return "tracking"
	default:
		return "unknown"
	}
}
