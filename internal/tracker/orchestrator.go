package tracker

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/wproctor/flightsign/internal/airports"
	"github.com/wproctor/flightsign/pkg/adsb"
	"github.com/wproctor/flightsign/pkg/budget"
	"github.com/wproctor/flightsign/pkg/flightaware"
	"github.com/wproctor/flightsign/pkg/openweather"
)

// Provider identifiers used with the budget tracker.
const (
	ProviderPosition = "position"
	ProviderSchedule = "schedule"
	ProviderWeather  = "weather"
)

// PositionSource supplies live positions. (nil, nil) means the provider
// definitively does not know the flight.
type PositionSource interface {
	GetByCallsign(ctx context.Context, callsign string) (*adsb.Position, error)
}

// ScheduleSource supplies flight schedules. (nil, nil) means no schedule
// exists for the ident.
type ScheduleSource interface {
	GetFlight(ctx context.Context, ident, date string) (*flightaware.Flight, error)
}

// WeatherSource supplies current weather at a coordinate.
type WeatherSource interface {
	GetCurrent(ctx context.Context, lat, lon float64) (*openweather.Conditions, error)
}

// Stats summarizes one tick's budget outcomes. The state machine treats
// Permitted == 0 as "no provider budget remained this tick".
type Stats struct {
	// Permitted counts provider calls the budget allowed
	Permitted int

	// Denied counts provider calls the budget rejected
	Denied int

	// Failed counts permitted calls that ended in a transient error
	Failed int
}

// OrchestratorConfig wires an Orchestrator.
type OrchestratorConfig struct {
	Query    FlightQuery
	Position PositionSource
	Schedule ScheduleSource
	Weather  WeatherSource
	Budget   *budget.Tracker
	Airports *airports.Table

	// Per-call timeouts. Zero values get conservative defaults.
	PositionTimeout time.Duration
	ScheduleTimeout time.Duration
	WeatherTimeout  time.Duration

	// ScheduleCacheTTL is how long a successful schedule lookup may be
	// served as last-known-good (default 24h).
	ScheduleCacheTTL time.Duration
}

// Orchestrator issues the per-tick provider queries and merges partial
// results into one snapshot. Each provider's fields only ever come from
// that provider; there is no cross-provider reconciliation.
//
// Not safe for concurrent use: it is owned by the single poll loop.
type Orchestrator struct {
	query    FlightQuery
	position PositionSource
	schedule ScheduleSource
	weather  WeatherSource
	budget   *budget.Tracker
	airports *airports.Table

	positionTimeout time.Duration
	scheduleTimeout time.Duration
	weatherTimeout  time.Duration

	// Last-known-good schedule. Schedules change rarely, so a denied or
	// failed lookup is served from here until the TTL runs out. A
	// definitive not-found clears it.
	cacheTTL       time.Duration
	cachedSchedule *Schedule
	cachedAt       time.Time
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.PositionTimeout == 0 {
		cfg.PositionTimeout = 10 * time.Second
	}
	if cfg.ScheduleTimeout == 0 {
		cfg.ScheduleTimeout = 10 * time.Second
	}
	if cfg.WeatherTimeout == 0 {
		cfg.WeatherTimeout = 5 * time.Second
	}
	if cfg.ScheduleCacheTTL == 0 {
		cfg.ScheduleCacheTTL = 24 * time.Hour
	}

	return &Orchestrator{
		query:           cfg.Query,
		position:        cfg.Position,
		schedule:        cfg.Schedule,
		weather:         cfg.Weather,
		budget:          cfg.Budget,
		airports:        cfg.Airports,
		positionTimeout: cfg.PositionTimeout,
		scheduleTimeout: cfg.ScheduleTimeout,
		weatherTimeout:  cfg.WeatherTimeout,
		cacheTTL:        cfg.ScheduleCacheTTL,
	}
}

// Lookup runs one tick's provider queries and returns the assembled
// snapshot. Providers are consulted in order position, schedule, weather;
// a failure or budget denial for one never blocks the others. No provider
// error escapes: every failure becomes an absent field, retried naturally
// by the next tick.
func (o *Orchestrator) Lookup(ctx context.Context, now time.Time) (Snapshot, Stats) {
	snap := Snapshot{Ident: o.query.Ident, Observed: now}
	var stats Stats

	// Position first: it is the authority on whether the flight exists.
	if o.budget.TryConsume(ProviderPosition, now) {
		stats.Permitted++
		pos, err := o.lookupPosition(ctx)
		switch {
		case err != nil:
			stats.Failed++
			log.Printf("position lookup failed for %s: %v", o.query.Ident, err)
		case pos == nil:
			// Definitive not-found. Schedule and weather depend on the
			// flight existing, so the tick ends here, and the cached
			// schedule must not outlive the flight.
			log.Printf("position provider reports %s not found", o.query.Ident)
			snap.NotFound = true
			o.cachedSchedule = nil
			return snap, stats
		default:
			snap.Position = pos
		}
	} else {
		stats.Denied++
	}

	// Schedule, with last-known-good fallback.
	if o.budget.TryConsume(ProviderSchedule, now) {
		stats.Permitted++
		sched, err := o.lookupSchedule(ctx)
		switch {
		case err != nil:
			stats.Failed++
			log.Printf("schedule lookup failed for %s: %v", o.query.Ident, err)
			snap.Schedule = o.cachedScheduleCopy(now)
		case sched == nil:
			// No schedule on file. Not an error, and not this provider's
			// call to declare the flight missing.
			log.Printf("no schedule on file for %s", o.query.Ident)
		default:
			snap.Schedule = sched
			cached := *sched
			o.cachedSchedule = &cached
			o.cachedAt = now
		}
	} else {
		stats.Denied++
		snap.Schedule = o.cachedScheduleCopy(now)
	}

	// Weather last: it needs a location, which only the two lookups above
	// can establish. Without one the call is skipped outright, budget
	// untouched.
	lat, lon, where, ok := o.weatherLocation(snap)
	if !ok {
		return snap, stats
	}
	if o.budget.TryConsume(ProviderWeather, now) {
		stats.Permitted++
		wx, err := o.lookupWeather(ctx, lat, lon)
		if err != nil {
			stats.Failed++
			log.Printf("weather lookup failed at %s: %v", where, err)
		} else {
			wx.Location = where
			snap.Weather = wx
		}
	} else {
		stats.Denied++
	}

	return snap, stats
}

func (o *Orchestrator) lookupPosition(ctx context.Context) (*Position, error) {
	cctx, cancel := context.WithTimeout(ctx, o.positionTimeout)
	defer cancel()

	pos, err := o.position.GetByCallsign(cctx, o.query.Ident)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, nil
	}

	return &Position{
		Latitude:    pos.Latitude,
		Longitude:   pos.Longitude,
		Altitude:    int(math.Round(pos.Altitude)),
		GroundSpeed: int(math.Round(pos.GroundSpeed)),
		Track:       int(math.Round(pos.Track)) % 360,
	}, nil
}

func (o *Orchestrator) lookupSchedule(ctx context.Context) (*Schedule, error) {
	cctx, cancel := context.WithTimeout(ctx, o.scheduleTimeout)
	defer cancel()

	flight, err := o.schedule.GetFlight(cctx, o.query.Ident, o.query.Date)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, nil
	}

	return &Schedule{
		Origin:          o.airports.DisplayCode(flight.Origin.CodeICAO),
		Destination:     o.airports.DisplayCode(flight.Destination.CodeICAO),
		DestinationICAO: flight.Destination.CodeICAO,
		Departure:       flight.DepartureTime(),
		Arrival:         flight.ArrivalTime(),
		Gate:            flight.GateDestination,
		Terminal:        flight.TerminalDestination,
		Status:          flight.Status,
	}, nil
}

func (o *Orchestrator) lookupWeather(ctx context.Context, lat, lon float64) (*Weather, error) {
	cctx, cancel := context.WithTimeout(ctx, o.weatherTimeout)
	defer cancel()

	wx, err := o.weather.GetCurrent(cctx, lat, lon)
	if err != nil {
		return nil, err
	}
	return &Weather{
		Condition:    wx.Condition,
		TemperatureF: wx.TemperatureF,
	}, nil
}

// cachedScheduleCopy returns the last-known-good schedule if it is still
// fresh, marked FromCache, or nil.
func (o *Orchestrator) cachedScheduleCopy(now time.Time) *Schedule {
	if o.cachedSchedule == nil || now.Sub(o.cachedAt) > o.cacheTTL {
		return nil
	}
	sched := *o.cachedSchedule
	sched.FromCache = true
	return &sched
}

// weatherLocation resolves where to sample weather: the destination
// airport when the schedule (fresh or cached) names one the table knows,
// else the aircraft's own position, else nowhere.
func (o *Orchestrator) weatherLocation(snap Snapshot) (lat, lon float64, where string, ok bool) {
	if snap.Schedule != nil {
		if a, found := o.airports.Lookup(snap.Schedule.DestinationICAO); found {
			return a.Lat, a.Lon, a.IATA, true
		}
	}
	if snap.Position != nil {
		return snap.Position.Latitude, snap.Position.Longitude, "enroute", true
	}
	return 0, 0, "", false
}
