// Package openweather provides a minimal OpenWeatherMap client for the
// destination-weather segment of the sign.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"
)

const (
	// BaseURL is the OpenWeatherMap current-weather API base URL
	BaseURL = "https://api.openweathermap.org/data/2.5"

	// DefaultTimeout for API requests. Weather is the least important
	// segment, so it gets the shortest leash.
	DefaultTimeout = 5 * time.Second
)

// Client represents an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Config contains configuration for the OpenWeatherMap client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Conditions is the subset of current weather the sign can show.
type Conditions struct {
	// Condition is the short condition group (e.g., "Clear", "Rain")
	Condition string

	// Description is the longer condition text (e.g., "light rain")
	Description string

	// TemperatureF in degrees Fahrenheit, rounded for display
	TemperatureF int
}

// GetCurrent fetches the current weather at the given coordinates.
// Units are imperial to match the sign's °F rendering.
func (c *Client) GetCurrent(ctx context.Context, lat, lon float64) (*Conditions, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	q.Set("appid", c.apiKey)
	q.Set("units", "imperial")

	endpoint := fmt.Sprintf("%s/weather?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("weather API error %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("weather parse: %w", err)
	}

	if len(payload.Weather) == 0 {
		return nil, fmt.Errorf("weather: empty conditions array")
	}

	return &Conditions{
		Condition:    payload.Weather[0].Main,
		Description:  payload.Weather[0].Description,
		TemperatureF: int(math.Round(payload.Main.Temp)),
	}, nil
}
