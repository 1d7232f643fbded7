// Package flightaware provides a client for the FlightAware AeroAPI v4.
//
// The AeroAPI provides access to flight tracking data, flight plans, aircraft
// information, and more. This client focuses on schedule retrieval for a
// single tracked flight: route, times, gate and terminal.
//
// API Documentation: https://www.flightaware.com/aeroapi/portal/documentation
// Rate Limits: Free tier allows 500 requests/month, paid tiers offer higher limits.
package flightaware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the FlightAware AeroAPI v4 base URL
	BaseURL = "https://aeroapi.flightaware.com/aeroapi"

	// DefaultTimeout for API requests
	DefaultTimeout = 10 * time.Second
)

// Client represents a FlightAware AeroAPI client.
type Client struct {
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
}

// Config contains configuration for the FlightAware client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration

	// MinInterval is the minimum spacing between calls. Zero disables
	// spacing; the hard quota lives in the budget tracker, not here.
	MinInterval time.Duration
}

// NewClient creates a new FlightAware AeroAPI client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &Client{
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(limit, 1),
		baseURL:     cfg.BaseURL,
	}
}

// AirportRef identifies an airport in AeroAPI flight data.
type AirportRef struct {
	// CodeICAO is the 4-letter ICAO airport code (e.g., "KCLT")
	CodeICAO string `json:"code_icao"`

	// CodeIATA is the 3-letter IATA airport code (e.g., "CLT")
	CodeIATA string `json:"code_iata"`

	Name string `json:"name"`
	City string `json:"city"`
}

// Flight represents one scheduled flight from AeroAPI.
// Time fields are pointers: AeroAPI returns null for times that are not
// yet known (e.g., estimated_in before departure).
type Flight struct {
	// Identifiers
	Ident      string `json:"ident"`
	FAFlightID string `json:"fa_flight_id"`

	// Route
	Origin      AirportRef `json:"origin"`
	Destination AirportRef `json:"destination"`

	// Gate and terminal at each end. May be empty if not yet assigned.
	GateOrigin          string `json:"gate_origin"`
	GateDestination     string `json:"gate_destination"`
	TerminalOrigin      string `json:"terminal_origin"`
	TerminalDestination string `json:"terminal_destination"`

	// Timing. Scheduled times are from the filed schedule; estimated
	// times update as the flight progresses.
	ScheduledOut *time.Time `json:"scheduled_out"`
	EstimatedOut *time.Time `json:"estimated_out"`
	ScheduledIn  *time.Time `json:"scheduled_in"`
	EstimatedIn  *time.Time `json:"estimated_in"`

	// Aircraft and status
	AircraftType string `json:"aircraft_type"`
	Status       string `json:"status"` // e.g., "Scheduled", "En Route", "Arrived"
}

// GetFlight retrieves the schedule for a flight by its ident (callsign or
// flight number, e.g. "UAL123"). When date is non-empty ("2006-01-02") the
// search is narrowed to flights departing that day.
//
// If multiple flights match, the most recent is returned.
// Returns nil, nil if no flight is found (not an error).
// Returns error for API failures or network issues.
func (c *Client) GetFlight(ctx context.Context, ident, date string) (*Flight, error) {
	// Wait for rate limiter
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	// AeroAPI endpoint: /flights/{ident}
	// Returns an array of flights, most recent first.
	endpoint := fmt.Sprintf("%s/flights/%s", c.baseURL, url.PathEscape(ident))
	if date != "" {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid flight date %q: %w", date, err)
		}
		q := url.Values{}
		q.Set("start", day.Format("2006-01-02"))
		q.Set("end", day.AddDate(0, 0, 1).Format("2006-01-02"))
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// Handle HTTP errors
	if resp.StatusCode == 404 {
		return nil, nil // No flight found, not an error
	}

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	// Parse response - API returns array of flights
	var response struct {
		Flights []Flight `json:"flights"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if len(response.Flights) == 0 {
		return nil, nil // No flights found
	}

	// Return the first (most recent) flight
	return &response.Flights[0], nil
}

// DepartureTime returns the best known departure time: the estimate when
// available, otherwise the filed schedule. Nil when neither is known.
func (f *Flight) DepartureTime() *time.Time {
	if f.EstimatedOut != nil {
		return f.EstimatedOut
	}
	return f.ScheduledOut
}

// ArrivalTime returns the best known arrival time, preferring the estimate.
func (f *Flight) ArrivalTime() *time.Time {
	if f.EstimatedIn != nil {
		return f.EstimatedIn
	}
	return f.ScheduledIn
}
