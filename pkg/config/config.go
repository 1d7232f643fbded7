package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the complete application configuration.
// It is read once at startup and treated as immutable afterwards.
type Config struct {
	Flight    FlightConfig    `json:"flight"`
	Window    WindowConfig    `json:"window"`
	Providers ProvidersConfig `json:"providers"`
	Display   DisplayConfig   `json:"display"`
	Database  DatabaseConfig  `json:"database"`
}

// FlightConfig identifies the single flight being tracked.
type FlightConfig struct {
	// Ident is the flight number / callsign in ICAO form (e.g., "UAL123")
	Ident string `json:"ident"`

	// Date optionally pins the flight to a departure date ("2006-01-02").
	// Empty means the most recent flight matching Ident.
	Date string `json:"date"`

	// PollIntervalSeconds is how often the tracker ticks
	PollIntervalSeconds int `json:"poll_interval_seconds"`
}

// WindowConfig defines the operational hours during which tracking runs.
type WindowConfig struct {
	// StartHour is the opening hour (0-23), inclusive
	StartHour int `json:"start_hour"`

	// StartMinute is the opening minute (0-59)
	StartMinute int `json:"start_minute"`

	// EndHour is the closing hour (0-23), exclusive.
	// StartHour > EndHour means the window wraps midnight (e.g., 22 to 6).
	EndHour int `json:"end_hour"`

	// EndMinute is the closing minute (0-59)
	EndMinute int `json:"end_minute"`

	// Days restricts tracking to specific weekdays by name
	// ("Monday", ...). Empty means every day.
	Days []string `json:"days,omitempty"`
}

// ProvidersConfig holds the three provider configurations.
type ProvidersConfig struct {
	Position ProviderConfig `json:"position"`
	Schedule ProviderConfig `json:"schedule"`
	Weather  ProviderConfig `json:"weather"`

	// ScheduleCacheHours is how long a successful schedule lookup may be
	// served as last-known-good when later lookups are denied or fail
	ScheduleCacheHours int `json:"schedule_cache_hours"`
}

// ProviderConfig configures one upstream data provider.
type ProviderConfig struct {
	// BaseURL is the API base URL (empty = provider default)
	BaseURL string `json:"base_url,omitempty"`

	// TimeoutSeconds bounds each individual API call
	TimeoutSeconds int `json:"timeout_seconds"`

	// RateLimitSeconds is the minimum spacing between calls in seconds.
	// 0 = no inter-call spacing. This is a courtesy limit on top of the
	// quota tiers below (airplanes.live asks for ~1 request/second).
	RateLimitSeconds float64 `json:"rate_limit_seconds,omitempty"`

	// Limits are the hard quota tiers enforced before any call is made.
	// Empty means the provider is unmetered.
	Limits []BudgetLimit `json:"limits,omitempty"`
}

// BudgetLimit is one quota tier: at most Quota calls per window.
type BudgetLimit struct {
	// Quota is the maximum number of calls in one window
	Quota int `json:"quota"`

	// WindowMinutes is the window length in minutes
	WindowMinutes int `json:"window_minutes"`
}

// DisplayConfig describes the physical sign. The core never interprets
// these values; they are passed through to the display adapter.
type DisplayConfig struct {
	// MatrixRows is the number of 8x8 LED modules stacked vertically
	MatrixRows int `json:"matrix_rows"`

	// MatrixCols is the number of 8x8 LED modules side by side
	MatrixCols int `json:"matrix_cols"`

	// Brightness is the LED brightness (0-15)
	Brightness int `json:"brightness"`

	// TimeFormat is "12H" or "24H" for clock segments on the sign
	TimeFormat string `json:"time_format"`
}

// DatabaseConfig contains settings for the optional shared usage store.
// When disabled, budget usage is persisted to UsageFile instead.
type DatabaseConfig struct {
	// Enabled selects PostgreSQL persistence for budget usage
	Enabled bool `json:"enabled"`

	// Host is the database server hostname
	Host string `json:"host"`

	// Port is the database server port
	Port int `json:"port"`

	// Database is the database name
	Database string `json:"database"`

	// Username for database authentication
	Username string `json:"username"`

	// Password for database authentication (should come from environment)
	Password string `json:"password"`

	// SSLMode for PostgreSQL connections (disable, require, verify-ca, verify-full)
	SSLMode string `json:"ssl_mode"`

	// UsageFile is the JSON fallback path used when Enabled is false
	UsageFile string `json:"usage_file"`
}

// PollInterval returns the tick cadence as a duration.
func (c *FlightConfig) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Timeout returns the per-call timeout as a duration.
func (p *ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// ScheduleCacheTTL returns the last-known-good schedule lifetime.
func (p *ProvidersConfig) ScheduleCacheTTL() time.Duration {
	if p.ScheduleCacheHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(p.ScheduleCacheHours) * time.Hour
}

// Weekdays parses the configured day names. Unknown names are an error so a
// typo in config.json fails at startup rather than silently tracking daily.
func (w *WindowConfig) Weekdays() ([]time.Weekday, error) {
	names := map[string]time.Weekday{
		"Sunday": time.Sunday, "Monday": time.Monday, "Tuesday": time.Tuesday,
		"Wednesday": time.Wednesday, "Thursday": time.Thursday,
		"Friday": time.Friday, "Saturday": time.Saturday,
	}
	days := make([]time.Weekday, 0, len(w.Days))
	for _, name := range w.Days {
		day, ok := names[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q in window config", name)
		}
		days = append(days, day)
	}
	return days, nil
}

// Load reads configuration from a JSON file.
// If the file doesn't exist, returns a default configuration.
func Load(path string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvironmentOverrides()

	return &cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
// The schedule budget mirrors AeroAPI's personal tier: a conservative
// hourly burst limit plus daily and monthly caps.
func DefaultConfig() *Config {
	return &Config{
		Flight: FlightConfig{
			Ident:               "",
			PollIntervalSeconds: 30,
		},
		Window: WindowConfig{
			StartHour: 8,
			EndHour:   20,
		},
		Providers: ProvidersConfig{
			Position: ProviderConfig{
				BaseURL:          "https://api.airplanes.live/v2",
				TimeoutSeconds:   10,
				RateLimitSeconds: 1.0,
				Limits: []BudgetLimit{
					{Quota: 100, WindowMinutes: 60},
				},
			},
			Schedule: ProviderConfig{
				BaseURL:        "https://aeroapi.flightaware.com/aeroapi",
				TimeoutSeconds: 10,
				Limits: []BudgetLimit{
					{Quota: 10, WindowMinutes: 60},
					{Quota: 150, WindowMinutes: 24 * 60},
					{Quota: 4500, WindowMinutes: 30 * 24 * 60},
				},
			},
			Weather: ProviderConfig{
				BaseURL:        "https://api.openweathermap.org/data/2.5",
				TimeoutSeconds: 5,
				Limits: []BudgetLimit{
					{Quota: 50, WindowMinutes: 60},
				},
			},
			ScheduleCacheHours: 24,
		},
		Display: DisplayConfig{
			MatrixRows: 2,
			MatrixCols: 12,
			Brightness: 0,
			TimeFormat: "12H",
		},
		Database: DatabaseConfig{
			Enabled:   false,
			Host:      "localhost",
			Port:      5432,
			Database:  "flightsign",
			Username:  "flightsign",
			SSLMode:   "disable",
			UsageFile: "usage.json",
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the
// config. This allows sensitive or per-host values to be kept out of config
// files.
func (c *Config) applyEnvironmentOverrides() {
	if ident := os.Getenv("FLIGHTSIGN_FLIGHT"); ident != "" {
		c.Flight.Ident = ident
	}
	if dbPassword := os.Getenv("FLIGHTSIGN_DB_PASSWORD"); dbPassword != "" {
		c.Database.Password = dbPassword
	}
	if usageFile := os.Getenv("FLIGHTSIGN_USAGE_FILE"); usageFile != "" {
		c.Database.UsageFile = usageFile
	}
}
