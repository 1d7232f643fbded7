package tracker

// Decide maps one tick's inputs to a display mode. Pure function with a
// fixed precedence:
//
//  1. A not-found snapshot wins over everything: the sign must never show
//     stale tracking data for a flight the provider says does not exist.
//  2. Outside the operational window, or with every provider call denied
//     by the budget, the sign stands by.
//  3. Otherwise the sign tracks, rendering whatever subset of fields the
//     snapshot carries (absent fields are the display adapter's problem).
func Decide(snap Snapshot, windowOK, budgetOK bool) DisplayMode {
	if snap.NotFound {
		return ModeNotFound
	}
	if !windowOK || !budgetOK {
		return ModeStandby
	}
	return ModeTracking
}
