package tracker

import (
	"context"
	"log"
	"time"

	"github.com/wproctor/flightsign/pkg/budget"
	"github.com/wproctor/flightsign/pkg/window"
)

// Display renders one tick's outcome. Implementations must tolerate any
// subset of snapshot fields being absent.
type Display interface {
	Render(mode DisplayMode, snap Snapshot) error
}

// LoopConfig wires a Loop.
type LoopConfig struct {
	Orchestrator *Orchestrator
	Window       window.Window
	Budget       *budget.Tracker
	Display      Display

	// Store persists budget usage after each tick. Nil disables persistence.
	Store budget.Store

	// Interval between ticks (default 30s).
	Interval time.Duration

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

// Loop drives the sign: one tick per interval, each tick a full
// query-decide-render pass. Ticks never overlap and a slow tick delays the
// next rather than stacking.
type Loop struct {
	orch     *Orchestrator
	window   window.Window
	budget   *budget.Tracker
	display  Display
	store    budget.Store
	interval time.Duration
	now      func() time.Time
}

// NewLoop creates a Loop.
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Loop{
		orch:     cfg.Orchestrator,
		window:   cfg.Window,
		budget:   cfg.Budget,
		display:  cfg.Display,
		store:    cfg.Store,
		interval: cfg.Interval,
		now:      cfg.Now,
	}
}

// Tick runs one full pass: query the providers, decide the mode, render,
// persist budget usage. The lookup runs even outside the operational
// window so the sign still knows whether the flight exists; only the
// rendered mode changes.
func (l *Loop) Tick(ctx context.Context) (DisplayMode, Snapshot) {
	now := l.now()
	windowOK := l.window.Contains(now)

	snap, stats := l.orch.Lookup(ctx, now)
	budgetOK := stats.Permitted > 0

	mode := Decide(snap, windowOK, budgetOK)
	log.Printf("tick: mode=%s window=%v permitted=%d denied=%d failed=%d",
		mode, windowOK, stats.Permitted, stats.Denied, stats.Failed)
	if !windowOK {
		log.Printf("outside operational window, next open %s",
			l.window.NextOpen(now).Format("Mon 15:04"))
	}

	if err := l.display.Render(mode, snap); err != nil {
		log.Printf("render failed: %v", err)
	}

	if l.store != nil {
		if err := l.store.Save(l.budget.Usage()); err != nil {
			log.Printf("failed to persist budget usage: %v", err)
		}
	}

	return mode, snap
}

// Run ticks immediately and then on every interval until the context is
// canceled.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}
