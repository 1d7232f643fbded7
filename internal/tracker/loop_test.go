package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wproctor/flightsign/pkg/budget"
	"github.com/wproctor/flightsign/pkg/openweather"
	"github.com/wproctor/flightsign/pkg/window"
)

type fakeDisplay struct {
	modes []DisplayMode
	err   error
}

func (f *fakeDisplay) Render(mode DisplayMode, snap Snapshot) error {
	f.modes = append(f.modes, mode)
	return f.err
}

type fakeStore struct {
	saved   []budget.Usage
	saveErr error
}

func (f *fakeStore) Load() (budget.Usage, error) { return budget.Usage{}, nil }

func (f *fakeStore) Save(u budget.Usage) error {
	f.saved = append(f.saved, u)
	return f.saveErr
}

func newTestLoop(t *testing.T, orch *Orchestrator, b *budget.Tracker, disp Display, st budget.Store, now time.Time) *Loop {
	t.Helper()
	return NewLoop(LoopConfig{
		Orchestrator: orch,
		Window:       window.Window{StartHour: 22, EndHour: 6},
		Budget:       b,
		Display:      disp,
		Store:        st,
		Now:          func() time.Time { return now },
	})
}

// TestTick verifies one full pass: lookup, decide, render, persist.
func TestTick(t *testing.T) {
	pos := &fakePosition{pos: testPosition()}
	sched := &fakeSchedule{flight: testFlight()}
	wx := &fakeWeather{conditions: &openweather.Conditions{Condition: "Clear", TemperatureF: 72}}

	limits := map[string][]budget.Limit{
		ProviderSchedule: {{Quota: 10, Window: time.Hour}},
	}
	b := budget.New(limits)
	orch := NewOrchestrator(OrchestratorConfig{
		Query:    FlightQuery{Ident: "UAL123"},
		Position: pos,
		Schedule: sched,
		Weather:  wx,
		Budget:   b,
		Airports: mustAirports(t),
	})

	t.Run("In window renders tracking and persists usage", func(t *testing.T) {
		disp := &fakeDisplay{}
		st := &fakeStore{}
		loop := newTestLoop(t, orch, b, disp, st, tickTime) // 22:30, inside window

		mode, snap := loop.Tick(context.Background())

		if mode != ModeTracking {
			t.Errorf("Expected tracking, got %s", mode)
		}
		if snap.Position == nil {
			t.Error("Expected position in returned snapshot")
		}
		if len(disp.modes) != 1 || disp.modes[0] != ModeTracking {
			t.Errorf("Expected one tracking render, got %v", disp.modes)
		}
		if len(st.saved) != 1 {
			t.Fatalf("Expected one usage save, got %d", len(st.saved))
		}
		if st.saved[0][ProviderSchedule][0].Count != 1 {
			t.Errorf("Expected persisted schedule count 1, got %+v", st.saved[0])
		}
	})

	t.Run("Outside window still looks up but renders standby", func(t *testing.T) {
		disp := &fakeDisplay{}
		noon := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
		loop := newTestLoop(t, orch, b, disp, nil, noon)

		before := pos.calls
		mode, _ := loop.Tick(context.Background())

		if mode != ModeStandby {
			t.Errorf("Expected standby, got %s", mode)
		}
		if pos.calls != before+1 {
			t.Error("Expected the lookup to run outside the window")
		}
	})

	t.Run("Render failure does not abort the tick", func(t *testing.T) {
		disp := &fakeDisplay{err: errors.New("write failed")}
		st := &fakeStore{}
		loop := newTestLoop(t, orch, b, disp, st, tickTime)

		loop.Tick(context.Background())

		if len(st.saved) != 1 {
			t.Error("Expected usage persisted despite render failure")
		}
	})
}

// TestRunStopsOnCancel verifies Run exits promptly when the context ends.
func TestRunStopsOnCancel(t *testing.T) {
	pos := &fakePosition{pos: testPosition()}
	sched := &fakeSchedule{flight: testFlight()}
	wx := &fakeWeather{conditions: &openweather.Conditions{Condition: "Clear", TemperatureF: 72}}
	b := budget.New(nil)
	orch := NewOrchestrator(OrchestratorConfig{
		Query:    FlightQuery{Ident: "UAL123"},
		Position: pos,
		Schedule: sched,
		Weather:  wx,
		Budget:   b,
		Airports: mustAirports(t),
	})

	disp := &fakeDisplay{}
	loop := NewLoop(LoopConfig{
		Orchestrator: orch,
		Window:       window.Window{StartHour: 0, EndHour: 0},
		Budget:       b,
		Display:      disp,
		Interval:     time.Hour,
		Now:          func() time.Time { return tickTime },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected Run to return after cancel")
	}

	// The immediate first tick always happens.
	if len(disp.modes) == 0 {
		t.Error("Expected at least one render from the initial tick")
	}
}
