// Package budget enforces per-provider API call quotas over fixed time
// windows. Providers impose hard rate limits and exceeding them risks
// account suspension, so the quota is enforced client-side before a network
// call is ever attempted.
//
// A provider can carry several simultaneous limits (tiers), e.g. 10 calls
// per hour AND 150 per day AND 4500 per 30 days. A call is permitted only
// when every tier has headroom, and a permitted call counts against every
// tier at once.
package budget

import "time"

// Limit is a single quota tier: at most Quota calls within any one Window.
type Limit struct {
	// Quota is the maximum number of calls in one window instance.
	Quota int `json:"quota"`

	// Window is the length of one quota window.
	Window time.Duration `json:"window"`
}

// tierState tracks consumption against one Limit.
type tierState struct {
	count       int
	windowStart time.Time
}

// Tracker enforces call quotas for a set of named providers.
//
// The tracker never reads the wall clock: every operation takes now as an
// explicit parameter. It is not safe for concurrent use; the poll loop is
// the only caller, so no locking is needed.
type Tracker struct {
	limits map[string][]Limit
	state  map[string][]tierState
}

// New creates a Tracker for the given per-provider limits.
// Providers absent from the map are unmetered: TryConsume always permits
// them. A provider with an empty limit slice is likewise unmetered.
func New(limits map[string][]Limit) *Tracker {
	t := &Tracker{
		limits: make(map[string][]Limit, len(limits)),
		state:  make(map[string][]tierState, len(limits)),
	}
	for provider, lims := range limits {
		t.limits[provider] = append([]Limit(nil), lims...)
		t.state[provider] = make([]tierState, len(lims))
	}
	return t
}

// TryConsume reports whether one call to provider is permitted at now, and
// if so records it against every tier. Rejection is final for this tick and
// has no side effects, except that any tier whose window expired is reset
// (count to 0, window start to now) before the call is evaluated.
func (t *Tracker) TryConsume(provider string, now time.Time) bool {
	lims, metered := t.limits[provider]
	if !metered || len(lims) == 0 {
		return true
	}

	state := t.state[provider]
	t.rollWindows(lims, state, now)

	for i, lim := range lims {
		if state[i].count >= lim.Quota {
			return false
		}
	}
	for i := range state {
		state[i].count++
	}
	return true
}

// Remaining returns the smallest per-tier headroom for provider at now,
// after rolling any expired windows. Unmetered providers return -1.
func (t *Tracker) Remaining(provider string, now time.Time) int {
	lims, metered := t.limits[provider]
	if !metered || len(lims) == 0 {
		return -1
	}

	state := t.state[provider]
	t.rollWindows(lims, state, now)

	remaining := -1
	for i, lim := range lims {
		left := lim.Quota - state[i].count
		if left < 0 {
			left = 0
		}
		if remaining == -1 || left < remaining {
			remaining = left
		}
	}
	return remaining
}

// rollWindows resets every tier whose window has expired. A reset zeroes the
// count and anchors a fresh window at now.
func (t *Tracker) rollWindows(lims []Limit, state []tierState, now time.Time) {
	for i, lim := range lims {
		if state[i].windowStart.IsZero() {
			state[i].windowStart = now
			continue
		}
		if !now.Before(state[i].windowStart.Add(lim.Window)) {
			state[i].count = 0
			state[i].windowStart = now
		}
	}
}
