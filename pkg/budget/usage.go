package budget

import "time"

// TierUsage is the serializable state of one quota tier.
type TierUsage struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
}

// Usage is a snapshot of every metered provider's consumption, suitable for
// persisting across process restarts so a restart cannot double-spend a
// provider quota.
type Usage map[string][]TierUsage

// Store persists budget usage between runs. Implementations live in
// internal/store (JSON file and PostgreSQL).
type Store interface {
	// Load returns the last saved usage, or an empty Usage if none exists.
	Load() (Usage, error)

	// Save replaces the stored usage.
	Save(Usage) error
}

// Usage captures the tracker's current consumption for persistence.
func (t *Tracker) Usage() Usage {
	u := make(Usage, len(t.state))
	for provider, state := range t.state {
		tiers := make([]TierUsage, len(state))
		for i, s := range state {
			tiers[i] = TierUsage{Count: s.count, WindowStart: s.windowStart}
		}
		u[provider] = tiers
	}
	return u
}

// Restore installs previously saved usage. Saved tiers whose window has
// already expired at now are dropped, so stale counts never carry into a
// fresh window. Saved providers or tiers that no longer match the
// configured limits are ignored.
func (t *Tracker) Restore(u Usage, now time.Time) {
	for provider, tiers := range u {
		lims, ok := t.limits[provider]
		if !ok || len(tiers) != len(lims) {
			continue
		}
		state := t.state[provider]
		for i, saved := range tiers {
			if saved.WindowStart.IsZero() {
				continue
			}
			if !now.Before(saved.WindowStart.Add(lims[i].Window)) {
				continue // window already over, start clean
			}
			state[i] = tierState{count: saved.Count, windowStart: saved.WindowStart}
		}
	}
}
