package adsb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// AirplanesLiveClient implements the Source interface for airplanes.live.
// API Documentation: https://airplanes.live/api-guide/
// Rate Limit: 1 request per second
type AirplanesLiveClient struct {
	// baseURL is the API base URL (default: https://api.airplanes.live/v2)
	baseURL string

	// httpClient is the HTTP client used for API requests
	httpClient *http.Client

	// limiter enforces the polite inter-call spacing the service asks for
	limiter *rate.Limiter
}

// AirplanesLiveConfig contains configuration for the airplanes.live client.
type AirplanesLiveConfig struct {
	BaseURL string

	// Timeout bounds each API call (default: 10s)
	Timeout time.Duration

	// MinInterval is the minimum spacing between calls (default: 1s)
	MinInterval time.Duration
}

// NewAirplanesLiveClient creates a new airplanes.live API client.
func NewAirplanesLiveClient(cfg AirplanesLiveConfig) *AirplanesLiveClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.airplanes.live/v2"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MinInterval == 0 {
		cfg.MinInterval = time.Second
	}

	return &AirplanesLiveClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
	}
}

// GetByCallsign returns the current position of the flight broadcasting the
// given callsign. Uses the /callsign/[callsign] endpoint.
//
// Returns (nil, nil) when the aggregator does not track the callsign: that
// is a definitive not-found, not an error.
func (c *AirplanesLiveClient) GetByCallsign(ctx context.Context, callsign string) (*Position, error) {
	// Apply rate limiting before touching the network
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	// Build API URL
	url := fmt.Sprintf("%s/callsign/%s", c.baseURL, callsign)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Make API request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch position data: %w", err)
	}
	defer resp.Body.Close()

	// Check for rate limit (HTTP 429)
	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := parseRetryAfter(resp.Header)
		return nil, &RateLimitError{
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter,
			Message:    "Rate limit exceeded",
		}
	}

	// Check other error status codes
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	// Parse response
	var apiResp airplanesLiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	// An empty aircraft list means the callsign is not currently broadcast
	// anywhere the network can hear. Definitive not-found.
	if len(apiResp.Aircraft) == 0 {
		return nil, nil
	}

	// The callsign endpoint can match several airframes; take the first
	// entry with a usable position.
	for _, ac := range apiResp.Aircraft {
		if ac.Lat == nil || ac.Lon == nil {
			continue
		}
		pos := convertAirplanesLiveAircraft(ac)
		return &pos, nil
	}

	// Known callsign but no position yet (e.g., just off the ground).
	// Treat as not found this tick; the next poll will pick it up.
	return nil, nil
}

// Close cleanly shuts down the client.
// For airplanes.live, this is a no-op as there are no persistent connections.
func (c *AirplanesLiveClient) Close() error {
	return nil
}

// airplanesLiveResponse represents the JSON response from airplanes.live API.
type airplanesLiveResponse struct {
	// Aircraft is the array of aircraft data
	Aircraft []airplanesLiveAircraft `json:"ac"`

	// Total number of aircraft
	Total int `json:"total"`

	// Current timestamp
	Now float64 `json:"now"`

	// Message count
	Messages int `json:"messages"`
}

// airplanesLiveAircraft represents a single aircraft in the airplanes.live API response.
// Field documentation: https://airplanes.live/adsb-field-explanations/
type airplanesLiveAircraft struct {
	// Hex is the ICAO Mode S hex code (e.g., "a12345")
	Hex string `json:"hex"`

	// Flight is the callsign/flight number
	Flight *string `json:"flight"`

	// Lat is latitude in decimal degrees
	Lat *float64 `json:"lat"`

	// Lon is longitude in decimal degrees
	Lon *float64 `json:"lon"`

	// AltBaro is barometric altitude in feet
	// Note: Can be string "ground" or float
	AltBaro interface{} `json:"alt_baro"`

	// AltGeom is geometric (GPS) altitude in feet
	// Note: Can be string "ground" or float
	AltGeom interface{} `json:"alt_geom"`

	// Gs is ground speed in knots
	Gs *float64 `json:"gs"`

	// Track is ground track in degrees (0-360)
	Track *float64 `json:"track"`

	// BaroRate is barometric vertical rate in feet/minute
	BaroRate *float64 `json:"baro_rate"`

	// Seen is seconds since last position update
	Seen *float64 `json:"seen"`

	// SeenPos is seconds since last position message
	SeenPos *float64 `json:"seen_pos"`
}

// convertAirplanesLiveAircraft converts an airplanes.live aircraft to our Position type.
func convertAirplanesLiveAircraft(ac airplanesLiveAircraft) Position {
	pos := Position{
		ICAO: ac.Hex,
	}

	// Callsign (trim whitespace)
	if ac.Flight != nil {
		pos.Callsign = *ac.Flight
	}

	// Position
	if ac.Lat != nil {
		pos.Latitude = *ac.Lat
	}
	if ac.Lon != nil {
		pos.Longitude = *ac.Lon
	}

	// Altitude - prefer geometric (GPS) over barometric
	// Handle interface{} which can be float64 or string ("ground")
	if alt := parseAltitude(ac.AltGeom); alt != nil {
		pos.Altitude = *alt
	} else if alt := parseAltitude(ac.AltBaro); alt != nil {
		pos.Altitude = *alt
	}

	// Velocity
	if ac.Gs != nil {
		pos.GroundSpeed = *ac.Gs
	}
	if ac.Track != nil {
		pos.Track = *ac.Track
	}
	if ac.BaroRate != nil {
		pos.VerticalRate = *ac.BaroRate
	}

	// Timestamp - calculate from "seen" seconds ago
	if ac.Seen != nil {
		seenDuration := time.Duration(*ac.Seen * float64(time.Second))
		pos.LastSeen = time.Now().UTC().Add(-seenDuration)
	} else {
		pos.LastSeen = time.Now().UTC()
	}

	return pos
}

// parseAltitude safely extracts altitude from interface{} which can be float64 or string.
// Returns nil if the value is invalid or represents "ground".
func parseAltitude(val interface{}) *float64 {
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case float64:
		return &v
	case string:
		// "ground" means altitude is 0 or on ground
		if v == "ground" {
			zero := 0.0
			return &zero
		}
		return nil
	default:
		return nil
	}
}

// RateLimitError represents an HTTP 429 rate limit error with retry information.
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return e.Message
}

// IsRateLimitError checks if an error is a rate limit error.
func IsRateLimitError(err error) (*RateLimitError, bool) {
	if rle, ok := err.(*RateLimitError); ok {
		return rle, true
	}
	return nil, false
}

// parseRetryAfter extracts the Retry-After header value.
// Returns the duration to wait, or 0 if header is not present.
// Supports both delay-seconds (integer) and HTTP-date formats.
func parseRetryAfter(headers http.Header) time.Duration {
	retryAfter := headers.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	// Try parsing as delay-seconds (e.g., "30")
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	// Try parsing as HTTP-date (e.g., "Wed, 21 Oct 2015 07:28:00 GMT")
	if retryTime, err := http.ParseTime(retryAfter); err == nil {
		duration := time.Until(retryTime)
		if duration > 0 {
			return duration
		}
	}

	return 0
}
