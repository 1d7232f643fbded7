package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

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

// nullDisplay satisfies the loop's display dependency; the TUI composes
// its own view from the returned snapshot instead.
type nullDisplay struct{}

func (nullDisplay) Render(mode tracker.DisplayMode, snap tracker.Snapshot) error { return nil }

type model struct {
	cfg    *config.Config
	loop   *tracker.Loop
	budget *budget.Tracker
	win    window.Window

	mode       tracker.DisplayMode
	snap       tracker.Snapshot
	lastUpdate time.Time
	width      int
}

type tickMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick(time.Millisecond) // immediate first tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.mode, m.snap = m.loop.Tick(context.Background())
			m.lastUpdate = time.Now()
		}

	case tickMsg:
		m.mode, m.snap = m.loop.Tick(context.Background())
		m.lastUpdate = time.Now()
		return m, tick(m.cfg.Flight.PollInterval())
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString(titleStyle.Render("flightsign"))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  tracking %s", m.snap.Ident)))
	b.WriteString("\n\n")

	b.WriteString(m.renderSign())
	b.WriteString("\n\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderBudgets())
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("r: refresh now  q: quit"))
	return b.String()
}

// renderSign shows the exact message the LED matrix would scroll.
func (m model) renderSign() string {
	message := display.Compose(m.mode, m.snap, time.Now(),
		display.ClockFormat(m.cfg.Display.TimeFormat))

	var color lipgloss.Color
	switch m.mode {
	case tracker.ModeNotFound:
		color = lipgloss.Color("196")
	case tracker.ModeStandby:
		color = lipgloss.Color("241")
	default:
		color = lipgloss.Color("46")
	}

	signStyle := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))
	return signStyle.Render(message)
}

func (m model) renderStatus() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	var lines []string
	now := time.Now()

	windowState := "CLOSED"
	if m.win.Contains(now) {
		windowState = "OPEN"
	} else {
		windowState = fmt.Sprintf("CLOSED (opens %s)", m.win.NextOpen(now).Format("Mon 15:04"))
	}
	lines = append(lines, labelStyle.Render("Mode:    ")+valueStyle.Render(m.mode.String()))
	lines = append(lines, labelStyle.Render("Window:  ")+valueStyle.Render(windowState))

	if m.snap.Position != nil {
		lines = append(lines, labelStyle.Render("Position:")+valueStyle.Render(
			fmt.Sprintf(" %.3f,%.3f  %dft  %dkt  trk %d°",
				m.snap.Position.Latitude, m.snap.Position.Longitude,
				m.snap.Position.Altitude, m.snap.Position.GroundSpeed, m.snap.Position.Track)))
	}
	if s := m.snap.Schedule; s != nil {
		detail := fmt.Sprintf(" %s > %s", s.Origin, s.Destination)
		if s.Gate != "" {
			detail += "  gate " + s.Gate
		}
		if s.Status != "" {
			detail += "  " + s.Status
		}
		if s.FromCache {
			detail += "  (cached)"
		}
		lines = append(lines, labelStyle.Render("Schedule:")+valueStyle.Render(detail))
	}
	if w := m.snap.Weather; w != nil {
		lines = append(lines, labelStyle.Render("Weather: ")+valueStyle.Render(
			fmt.Sprintf(" %s %dF at %s", w.Condition, w.TemperatureF, w.Location)))
	}
	if !m.lastUpdate.IsZero() {
		lines = append(lines, labelStyle.Render("Updated: ")+valueStyle.Render(
			" "+m.lastUpdate.Format("15:04:05")))
	}

	return strings.Join(lines, "\n")
}

// renderBudgets shows remaining calls per provider for the current window.
func (m model) renderBudgets() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	lowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	now := time.Now()
	var parts []string
	for _, provider := range []string{
		tracker.ProviderPosition, tracker.ProviderSchedule, tracker.ProviderWeather,
	} {
		remaining := m.budget.Remaining(provider, now)
		var value string
		switch {
		case remaining < 0:
			value = okStyle.Render("unmetered")
		case remaining == 0:
			value = lowStyle.Render("exhausted")
		default:
			value = okStyle.Render(fmt.Sprintf("%d left", remaining))
		}
		parts = append(parts, labelStyle.Render(provider+": ")+value)
	}
	return strings.Join(parts, "   ")
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
		Display:      nullDisplay{},
		Store:        usageStore,
		Interval:     cfg.Flight.PollInterval(),
	})

	m := model{
		cfg:    cfg,
		loop:   loop,
		budget: budgetTracker,
		win:    win,
	}

	// The poll loop logs every tick; keep that off the alternate screen.
	if f, err := tea.LogToFile("sign-tui.log", "sign-tui"); err == nil {
		defer f.Close()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
