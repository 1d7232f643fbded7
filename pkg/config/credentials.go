package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credentials holds the provider API keys. They live in a separate file
// from the main configuration so config.json can be committed or shared
// without leaking secrets.
type Credentials struct {
	// AeroAPIKey is the FlightAware AeroAPI v4 key (schedule provider)
	AeroAPIKey string `json:"aero_key"`

	// OpenWeatherMapKey is the OpenWeatherMap key (weather provider)
	OpenWeatherMapKey string `json:"openweathermap_api_key"`
}

// LoadCredentials reads API keys from a JSON file, then applies
// environment overrides (FLIGHTSIGN_AERO_KEY, FLIGHTSIGN_OWM_KEY).
//
// A missing or malformed file is only an error when a key is still absent
// after overrides: running entirely from the environment is supported.
func LoadCredentials(path string) (*Credentials, error) {
	var creds Credentials

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &creds); err != nil {
			return nil, fmt.Errorf("failed to parse credentials file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Fall through to environment-only
	default:
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	if key := os.Getenv("FLIGHTSIGN_AERO_KEY"); key != "" {
		creds.AeroAPIKey = key
	}
	if key := os.Getenv("FLIGHTSIGN_OWM_KEY"); key != "" {
		creds.OpenWeatherMapKey = key
	}

	if creds.AeroAPIKey == "" {
		return nil, fmt.Errorf("missing AeroAPI key: set aero_key in %s or FLIGHTSIGN_AERO_KEY", path)
	}
	if creds.OpenWeatherMapKey == "" {
		return nil, fmt.Errorf("missing OpenWeatherMap key: set openweathermap_api_key in %s or FLIGHTSIGN_OWM_KEY", path)
	}

	return &creds, nil
}
