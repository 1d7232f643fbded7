// Package airports provides a small embedded airport reference table.
// The sign shows 3-letter IATA codes ("SFO > JFK") while the schedule
// provider speaks ICAO, and the weather provider needs coordinates for the
// destination airport; this table bridges both.
package airports

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed airports.json
var airportsJSON embed.FS

// Airport is one entry in the reference table.
type Airport struct {
	// ICAO is the 4-letter ICAO code (e.g., "KJFK")
	ICAO string `json:"icao"`

	// IATA is the 3-letter IATA code (e.g., "JFK")
	IATA string `json:"iata"`

	// Name is the airport's common name
	Name string `json:"name"`

	// Lat, Lon are the field coordinates in decimal degrees
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Table is an in-memory airport lookup, keyed by both ICAO and IATA code.
type Table struct {
	byCode map[string]*Airport
}

// LoadEmbedded builds the table from the bundled airports.json.
func LoadEmbedded() (*Table, error) {
	data, err := airportsJSON.ReadFile("airports.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded airport table: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Table, error) {
	var entries []Airport
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse airport table: %w", err)
	}

	t := &Table{byCode: make(map[string]*Airport, len(entries)*2)}
	for i := range entries {
		a := &entries[i]
		if a.ICAO != "" {
			t.byCode[strings.ToUpper(a.ICAO)] = a
		}
		if a.IATA != "" {
			t.byCode[strings.ToUpper(a.IATA)] = a
		}
	}
	return t, nil
}

// Lookup finds an airport by ICAO or IATA code, case-insensitively.
func (t *Table) Lookup(code string) (*Airport, bool) {
	if code == "" {
		return nil, false
	}
	a, ok := t.byCode[strings.ToUpper(code)]
	return a, ok
}

// DisplayCode returns the 3-letter IATA code for a known airport, or the
// input unchanged when the table has no entry. The sign prefers IATA codes
// because they fit the matrix better.
func (t *Table) DisplayCode(code string) string {
	if a, ok := t.Lookup(code); ok && a.IATA != "" {
		return a.IATA
	}
	return code
}
