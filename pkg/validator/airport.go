package validator

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyCity indicates the city value is empty
	ErrEmptyCity = errors.New("city cannot be empty")

	// ErrUnknownCity indicates the value is neither a known airport code nor a full city name
	ErrUnknownCity = errors.New("not a valid city or airport code")
)

// airportNames maps IATA airport codes to the full city names stored on flights
var airportNames = map[string]string{
	"JFK": "New York (JFK)",
	"LAX": "Los Angeles (LAX)",
	"ORD": "Chicago (ORD)",
	"ATL": "Atlanta (ATL)",
	"DFW": "Dallas (DFW)",
	"SFO": "San Francisco (SFO)",
	"MIA": "Miami (MIA)",
	"DEN": "Denver (DEN)",
	"SEA": "Seattle (SEA)",
	"BOS": "Boston (BOS)",
	"LAS": "Las Vegas (LAS)",
	"IAH": "Houston (IAH)",
	"IAD": "Washington DC (IAD)",
	"PHX": "Phoenix (PHX)",
	"MCO": "Orlando (MCO)",
}

// fullNames is the reverse index of airportNames for full-name lookups
var fullNames = func() map[string]bool {
	m := make(map[string]bool, len(airportNames))
	for _, name := range airportNames {
		m[name] = true
	}
	return m
}()

// AirportValidator normalizes city inputs to their canonical full names
type AirportValidator struct{}

// NewAirportValidator creates a new airport validator instance
func NewAirportValidator() *AirportValidator {
	return &AirportValidator{}
}

// Normalize accepts an IATA airport code (any case) or a full city name and
// returns the canonical "City (CODE)" form. Flights always store the full name.
func (v *AirportValidator) Normalize(city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", ErrEmptyCity
	}

	if name, ok := airportNames[strings.ToUpper(city)]; ok {
		return name, nil
	}

	if fullNames[city] {
		return city, nil
	}

	return "", ErrUnknownCity
}

// IsValid reports whether the value is a known airport code or full city name
func (v *AirportValidator) IsValid(city string) bool {
	_, err := v.Normalize(city)
	return err == nil
}
