package amadeus

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/flightsync/internal/core/domain"
)

// Location is the display form of an airport code.
type Location struct {
	City    string
	Country string
}

// unknownCountry is used when a code has no mapping.
const unknownCountry = "Unknown"

// cityToIATA maps lower-cased city names to IATA codes.
var cityToIATA = map[string]string{
	"new delhi":        "DEL",
	"delhi":            "DEL",
	"mumbai":           "BOM",
	"hanoi":            "HAN",
	"ho chi minh city": "SGN",
	"da nang":          "DAD",
	"phu quoc":         "PQC",
}

// iataToLocation is the inverse mapping used for display names.
var iataToLocation = map[string]Location{
	"DEL": {City: "New Delhi", Country: "India"},
	"BOM": {City: "Mumbai", Country: "India"},
	"HAN": {City: "Hanoi", Country: "Vietnam"},
	"SGN": {City: "Ho Chi Minh City", Country: "Vietnam"},
	"DAD": {City: "Da Nang", Country: "Vietnam"},
	"PQC": {City: "Phu Quoc", Country: "Vietnam"},
}

// ResolveLocationCode returns the IATA code for a city name.
// Matching ignores case and surrounding whitespace.
func ResolveLocationCode(city string) (string, error) {
	code, ok := cityToIATA[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		return "", fmt.Errorf("%w: unsupported city %q (supported: %s)",
			domain.ErrConfiguration, city, strings.Join(SupportedCities(), ", "))
	}
	return code, nil
}

// LookupLocation returns the display city and country for an IATA code.
func LookupLocation(code string) (Location, bool) {
	loc, ok := iataToLocation[strings.ToUpper(code)]
	return loc, ok
}

// locationOrFallback resolves code, falling back to the configured city
// name with an unknown country.
func locationOrFallback(code, city string) Location {
	if loc, ok := LookupLocation(code); ok {
		return loc
	}
	return Location{City: city, Country: unknownCountry}
}

// SupportedCities returns the accepted city names in sorted order.
func SupportedCities() []string {
	cities := make([]string, 0, len(cityToIATA))
	for city := range cityToIATA {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}
