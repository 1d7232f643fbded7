package adsb

import (
	"context"
	"time"
)

// Position is the live state of a single tracked flight as reported by an
// ADS-B aggregator. All position data is in WGS84 coordinate system.
type Position struct {
	// ICAO is the unique 24-bit ICAO aircraft address (e.g., "A12345")
	ICAO string

	// Callsign is the flight number as broadcast by the transponder
	Callsign string

	// Latitude in decimal degrees (-90 to +90)
	Latitude float64

	// Longitude in decimal degrees (-180 to +180)
	Longitude float64

	// Altitude in feet above mean sea level (MSL)
	// Note: Some aircraft report geometric altitude, others barometric
	Altitude float64

	// GroundSpeed in knots
	GroundSpeed float64

	// Track is the ground track (heading) in degrees (0-359)
	// 0 = North, 90 = East, 180 = South, 270 = West
	Track float64

	// VerticalRate in feet per minute (positive = climbing, negative = descending)
	VerticalRate float64

	// LastSeen is the timestamp of the last position update
	LastSeen time.Time
}

// Source is the interface a live-position provider must implement.
// This abstraction allows switching between aggregators (airplanes.live,
// ADS-B Exchange, OpenSky) without touching the tracker.
type Source interface {
	// GetByCallsign returns the current position of the flight broadcasting
	// the given callsign. Returns (nil, nil) when the aggregator definitively
	// does not know the flight; that is a not-found result, not an error.
	GetByCallsign(ctx context.Context, callsign string) (*Position, error)

	// Close cleanly shuts down the data source connection.
	Close() error
}
