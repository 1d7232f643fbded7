// sign-emulator renders the LED matrix on a desktop terminal: the composed
// message scrolls across a fixed-width marquee sized like the real module
// chain, with the poll loop running underneath exactly as it would on the
// sign hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

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

// scrollInterval is the marquee step rate. Real MAX7219 chains scroll at
// roughly this speed.
const scrollInterval = 200 * time.Millisecond

// App ties the poll loop to the emulated matrix.
type App struct {
	cfg *config.Config

	tviewApp *tview.Application
	matrix   *tview.TextView
	status   *tview.TextView
	logs     *tview.TextView

	// Current sign state, written by the poll loop via Render and read by
	// the marquee goroutine.
	mu      sync.RWMutex
	message string
	mode    tracker.DisplayMode
	offset  int

	stopChan chan struct{}
}

// visibleChars is how many characters the configured module chain can show
// at once: 8 pixel columns per module, ~6 columns per character.
func (a *App) visibleChars() int {
	chars := a.cfg.Display.MatrixCols * 8 / 6
	if chars < 8 {
		chars = 8
	}
	return chars
}

// Render implements tracker.Display. Each tick replaces the scrolling
// message and restarts the marquee from the left.
func (a *App) Render(mode tracker.DisplayMode, snap tracker.Snapshot) error {
	message := display.Compose(mode, snap, time.Now(),
		display.ClockFormat(a.cfg.Display.TimeFormat))

	a.mu.Lock()
	changed := message != a.message
	a.message = message
	a.mode = mode
	if changed {
		a.offset = 0
	}
	a.mu.Unlock()

	if changed {
		log.Printf("sign: [%s] %s", mode, message)
	}
	a.updateStatus(mode, snap)
	return nil
}

// marqueeLoop advances the visible slice of the message on a fixed cadence.
func (a *App) marqueeLoop() {
	ticker := time.NewTicker(scrollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopChan:
			return
		case <-ticker.C:
			a.advance()
		}
	}
}

func (a *App) advance() {
	a.mu.Lock()
	visible := a.visibleChars()
	view := a.message
	color := "green"
	switch a.mode {
	case tracker.ModeNotFound:
		color = "red"
	case tracker.ModeStandby:
		color = "gray"
	}

	if len(a.message) > visible {
		// Pad so the message fully exits before re-entering.
		padded := a.message + strings.Repeat(" ", visible)
		a.offset = (a.offset + 1) % len(padded)
		doubled := padded + padded
		view = doubled[a.offset : a.offset+visible]
	}
	a.mu.Unlock()

	a.tviewApp.QueueUpdateDraw(func() {
		a.matrix.SetText(fmt.Sprintf("[%s::b]%s[-]", color, tview.Escape(view)))
	})
}

func (a *App) updateStatus(mode tracker.DisplayMode, snap tracker.Snapshot) {
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]Flight:[-] %s\n", snap.Ident)
	fmt.Fprintf(&b, "[yellow]Mode:[-]   %s\n", mode)
	if p := snap.Position; p != nil {
		fmt.Fprintf(&b, "[yellow]Alt:[-]    %dft  [yellow]Spd:[-] %dkt\n", p.Altitude, p.GroundSpeed)
	}
	if s := snap.Schedule; s != nil {
		cached := ""
		if s.FromCache {
			cached = " (cached)"
		}
		fmt.Fprintf(&b, "[yellow]Route:[-]  %s > %s%s\n", s.Origin, s.Destination, cached)
	}
	if w := snap.Weather; w != nil {
		fmt.Fprintf(&b, "[yellow]Wx:[-]     %s %dF at %s\n", w.Condition, w.TemperatureF, w.Location)
	}
	fmt.Fprintf(&b, "[yellow]Tick:[-]   %s", snap.Observed.Format("15:04:05"))

	a.tviewApp.QueueUpdateDraw(func() {
		a.status.SetText(b.String())
	})
}

func (a *App) setupUI() {
	a.tviewApp = tview.NewApplication()

	a.matrix = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetScrollable(false)
	a.matrix.SetBorder(true).SetTitle(fmt.Sprintf(
		" LED %dx%d ", a.cfg.Display.MatrixCols*8, a.cfg.Display.MatrixRows*8))

	a.status = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	a.status.SetBorder(true).SetTitle(" Status ")

	a.logs = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(200)
	a.logs.SetBorder(true).SetTitle(" Logs ")
	a.logs.SetChangedFunc(func() {
		a.tviewApp.Draw()
	})

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.matrix, 3, 0, false).
		AddItem(a.status, 8, 0, false).
		AddItem(a.logs, 0, 1, true)

	a.tviewApp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			a.tviewApp.Stop()
			return nil
		}
		return event
	})
	a.tviewApp.SetRoot(layout, true)
}

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	credsPath := flag.String("credentials", "configs/credentials.json", "Path to API credentials file")
	flight := flag.String("flight", "", "Flight ident to track (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *flight != "" {
		cfg.Flight.Ident = *flight
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
	budgetTracker := budget.New(limits)

	usageStore, err := store.NewFileStore(cfg.Database.UsageFile)
	if err != nil {
		log.Fatalf("Failed to open usage store: %v", err)
	}
	if usage, err := usageStore.Load(); err != nil {
		log.Fatalf("Failed to load budget usage: %v", err)
	} else {
		budgetTracker.Restore(usage, time.Now())
	}

	airportTable, err := airports.LoadEmbedded()
	if err != nil {
		log.Fatalf("Failed to load airport table: %v", err)
	}

	positionClient := adsb.NewAirplanesLiveClient(adsb.AirplanesLiveConfig{
		BaseURL: cfg.Providers.Position.BaseURL,
		Timeout: cfg.Providers.Position.Timeout(),
	})
	defer positionClient.Close()

	app := &App{
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}
	app.setupUI()

	orch := tracker.NewOrchestrator(tracker.OrchestratorConfig{
		Query:    tracker.FlightQuery{Ident: cfg.Flight.Ident, Date: cfg.Flight.Date},
		Position: positionClient,
		Schedule: flightaware.NewClient(flightaware.Config{
			APIKey:  creds.AeroAPIKey,
			BaseURL: cfg.Providers.Schedule.BaseURL,
			Timeout: cfg.Providers.Schedule.Timeout(),
		}),
		Weather: openweather.NewClient(openweather.Config{
			APIKey:  creds.OpenWeatherMapKey,
			BaseURL: cfg.Providers.Weather.BaseURL,
			Timeout: cfg.Providers.Weather.Timeout(),
		}),
		Budget:           budgetTracker,
		Airports:         airportTable,
		ScheduleCacheTTL: cfg.Providers.ScheduleCacheTTL(),
	})

	loop := tracker.NewLoop(tracker.LoopConfig{
		Orchestrator: orch,
		Window:       win,
		Budget:       budgetTracker,
		Display:      app,
		Store:        usageStore,
		Interval:     cfg.Flight.PollInterval(),
	})

	// Tick logs land in the logs panel instead of the terminal.
	log.SetOutput(tview.ANSIWriter(app.logs))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go loop.Run(ctx)
	go app.marqueeLoop()

	if err := app.tviewApp.Run(); err != nil {
		log.Fatalf("Emulator failed: %v", err)
	}
	close(app.stopChan)
	cancel()
}
