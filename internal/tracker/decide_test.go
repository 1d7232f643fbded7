package tracker

import "testing"

// TestDecide verifies the mode precedence across all input combinations.
func TestDecide(t *testing.T) {
	tracking := Snapshot{Position: &Position{Altitude: 34000}}
	missing := Snapshot{NotFound: true}

	t.Run("Not found wins over everything", func(t *testing.T) {
		for _, windowOK := range []bool{true, false} {
			for _, budgetOK := range []bool{true, false} {
				if got := Decide(missing, windowOK, budgetOK); got != ModeNotFound {
					t.Errorf("window=%v budget=%v: expected not-found, got %s",
						windowOK, budgetOK, got)
				}
			}
		}
	})

	t.Run("Outside window stands by", func(t *testing.T) {
		if got := Decide(tracking, false, true); got != ModeStandby {
			t.Errorf("Expected standby, got %s", got)
		}
	})

	t.Run("Budget exhausted stands by", func(t *testing.T) {
		if got := Decide(tracking, true, false); got != ModeStandby {
			t.Errorf("Expected standby, got %s", got)
		}
	})

	t.Run("In window with budget tracks", func(t *testing.T) {
		if got := Decide(tracking, true, true); got != ModeTracking {
			t.Errorf("Expected tracking, got %s", got)
		}
	})

	t.Run("Empty snapshot still tracks", func(t *testing.T) {
		// All providers failing transiently is not the same as not-found.
		if got := Decide(Snapshot{}, true, true); got != ModeTracking {
			t.Errorf("Expected tracking with absent fields, got %s", got)
		}
	})
}

// TestDecideIsStateless verifies consecutive calls are independent: a good
// tick right after a bad one returns straight to tracking.
func TestDecideIsStateless(t *testing.T) {
	if got := Decide(Snapshot{NotFound: true}, true, true); got != ModeNotFound {
		t.Fatalf("Expected not-found, got %s", got)
	}
	if got := Decide(Snapshot{Position: &Position{}}, true, true); got != ModeTracking {
		t.Errorf("Expected immediate recovery to tracking, got %s", got)
	}
}

func TestDisplayModeString(t *testing.T) {
	cases := map[DisplayMode]string{
		ModeNotFound:    "not-found",
		ModeStandby:     "standby",
		ModeTracking:    "tracking",
		DisplayMode(99): "unknown",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	}
}
