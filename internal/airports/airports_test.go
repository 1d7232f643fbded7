package airports

import "testing"

// TestLoadEmbedded verifies the bundled table parses and resolves codes.
func TestLoadEmbedded(t *testing.T) {
	table, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("Expected embedded table to load, got: %v", err)
	}

	t.Run("Lookup by ICAO", func(t *testing.T) {
		a, ok := table.Lookup("KJFK")
		if !ok {
			t.Fatal("Expected KJFK in table")
		}
		if a.IATA != "JFK" {
			t.Errorf("Expected IATA JFK, got %s", a.IATA)
		}
		if a.Lat == 0 || a.Lon == 0 {
			t.Error("Expected non-zero coordinates for KJFK")
		}
	})

	t.Run("Lookup by IATA", func(t *testing.T) {
		a, ok := table.Lookup("SFO")
		if !ok {
			t.Fatal("Expected SFO in table")
		}
		if a.ICAO != "KSFO" {
			t.Errorf("Expected ICAO KSFO, got %s", a.ICAO)
		}
	})

	t.Run("Case insensitive", func(t *testing.T) {
		if _, ok := table.Lookup("kjfk"); !ok {
			t.Error("Expected lowercase lookup to succeed")
		}
	})

	t.Run("Unknown code", func(t *testing.T) {
		if _, ok := table.Lookup("XXXX"); ok {
			t.Error("Expected XXXX absent from table")
		}
		if _, ok := table.Lookup(""); ok {
			t.Error("Expected empty code absent from table")
		}
	})
}

// TestDisplayCode verifies IATA preference with passthrough fallback.
func TestDisplayCode(t *testing.T) {
	table, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("Expected embedded table to load, got: %v", err)
	}

	if got := table.DisplayCode("EGLL"); got != "LHR" {
		t.Errorf("Expected LHR, got %s", got)
	}
	if got := table.DisplayCode("ZZZZ"); got != "ZZZZ" {
		t.Errorf("Expected unknown code passthrough, got %s", got)
	}
}
