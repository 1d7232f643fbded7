package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wproctor/flightsign/internal/airports"
	"github.com/wproctor/flightsign/internal/display"
	"github.com/wproctor/flightsign/internal/store"
	"github.com/wproctor/flightsign/internal/tracker"
	"github.com/wproctor/flightsign/pkg/adsb"
	"github.com/wproctor/flightsign/pkg/budget"
	"github.com/wproctor/flightsign/pkg/config"
	"github.com/wproctor/flightsign/pkg/flightaware"
	"github.com/wproctor/flightsign/pkg/openweather"
	"github.com/wproctor/flightsign/pkg/window"
)

// main runs the sign daemon: one flight, polled on an interval, rendered
// to the console display adapter. This is the headless deployment; the
// interactive surfaces live in sign-tui and sign-emulator.
func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	credsPath := flag.String("credentials", "configs/credentials.json", "Path to API credentials file")
	flight := flag.String("flight", "", "Flight ident to track (overrides config)")
	date := flag.String("date", "", "Departure date to pin the schedule lookup to (YYYY-MM-DD)")
	flag.Parse()

	log.Println("===========================================")
	log.Println("  flightsign - single flight LED tracker")
	log.Println("===========================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *flight != "" {
		cfg.Flight.Ident = *flight
	}
	if *date != "" {
		cfg.Flight.Date = *date
	}
	if cfg.Flight.Ident == "" {
		log.Fatal("No flight configured: set flight.ident in config or pass -flight")
	}

	creds, err := config.LoadCredentials(*credsPath)
	if err != nil {
		log.Fatalf("Failed to load credentials: %v", err)
	}

	days, err := cfg.Window.Weekdays()
	if err != nil {
		log.Fatalf("Invalid window configuration: %v", err)
	}
	win := window.Window{
		StartHour:   cfg.Window.StartHour,
		StartMinute: cfg.Window.StartMinute,
		EndHour:     cfg.Window.EndHour,
		EndMinute:   cfg.Window.EndMinute,
		Days:        days,
	}

	log.Printf("Tracking %s, polling every %s", cfg.Flight.Ident, cfg.Flight.PollInterval())
	log.Printf("Operational window: %02d:%02d-%02d:%02d",
		cfg.Window.StartHour, cfg.Window.StartMinute, cfg.Window.EndHour, cfg.Window.EndMinute)

	budgetTracker := budget.New(budgetLimits(cfg))

	usageStore, err := openUsageStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open usage store: %v", err)
	}
	usage, err := usageStore.Load()
	if err != nil {
		log.Fatalf("Failed to load budget usage: %v", err)
	}
	budgetTracker.Restore(usage, time.Now())
	log.Printf("Schedule budget remaining this window: %d",
		budgetTracker.Remaining(tracker.ProviderSchedule, time.Now()))

	airportTable, err := airports.LoadEmbedded()
	if err != nil {
		log.Fatalf("Failed to load airport table: %v", err)
	}

	positionClient := adsb.NewAirplanesLiveClient(adsb.AirplanesLiveConfig{
		BaseURL:     cfg.Providers.Position.BaseURL,
		Timeout:     cfg.Providers.Position.Timeout(),
		MinInterval: minInterval(cfg.Providers.Position),
	})
	defer positionClient.Close()

	scheduleClient := flightaware.NewClient(flightaware.Config{
		APIKey:      creds.AeroAPIKey,
		BaseURL:     cfg.Providers.Schedule.BaseURL,
		Timeout:     cfg.Providers.Schedule.Timeout(),
		MinInterval: minInterval(cfg.Providers.Schedule),
	})

	weatherClient := openweather.NewClient(openweather.Config{
		APIKey:  creds.OpenWeatherMapKey,
		BaseURL: cfg.Providers.Weather.BaseURL,
		Timeout: cfg.Providers.Weather.Timeout(),
	})

	orch := tracker.NewOrchestrator(tracker.OrchestratorConfig{
		Query:            tracker.FlightQuery{Ident: cfg.Flight.Ident, Date: cfg.Flight.Date},
		Position:         positionClient,
		Schedule:         scheduleClient,
		Weather:          weatherClient,
		Budget:           budgetTracker,
		Airports:         airportTable,
		PositionTimeout:  cfg.Providers.Position.Timeout(),
		ScheduleTimeout:  cfg.Providers.Schedule.Timeout(),
		WeatherTimeout:   cfg.Providers.Weather.Timeout(),
		ScheduleCacheTTL: cfg.Providers.ScheduleCacheTTL(),
	})

	loop := tracker.NewLoop(tracker.LoopConfig{
		Orchestrator: orch,
		Window:       win,
		Budget:       budgetTracker,
		Display:      display.NewConsole(display.ClockFormat(cfg.Display.TimeFormat)),
		Store:        usageStore,
		Interval:     cfg.Flight.PollInterval(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop.Run(ctx)

	log.Println("Shutting down")
	if err := usageStore.Save(budgetTracker.Usage()); err != nil {
		log.Printf("Failed to persist budget usage on shutdown: %v", err)
	}
}

// budgetLimits converts the configured quota tiers into budget limits.
func budgetLimits(cfg *config.Config) map[string][]budget.Limit {
	limits := make(map[string][]budget.Limit, 3)
	for provider, pc := range map[string]config.ProviderConfig{
		tracker.ProviderPosition: cfg.Providers.Position,
		tracker.ProviderSchedule: cfg.Providers.Schedule,
		tracker.ProviderWeather:  cfg.Providers.Weather,
	} {
		for _, l := range pc.Limits {
			limits[provider] = append(limits[provider], budget.Limit{
				Quota:  l.Quota,
				Window: time.Duration(l.WindowMinutes) * time.Minute,
			})
		}
	}
	return limits
}

func minInterval(pc config.ProviderConfig) time.Duration {
	return time.Duration(pc.RateLimitSeconds * float64(time.Second))
}

// openUsageStore picks PostgreSQL when enabled, the JSON file otherwise.
func openUsageStore(cfg *config.Config) (budget.Store, error) {
	if cfg.Database.Enabled {
		s, err := store.NewPostgresStore(cfg.Database)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := store.NewFileStore(cfg.Database.UsageFile)
	if err != nil {
		return nil, err
	}
	return s, nil
}
