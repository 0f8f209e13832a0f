package geocoding

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Geocoder converts place names to coordinates using the local database
type Geocoder struct{}

// Location represents a geocoded place
type Location struct {
	Latitude  float64
	Longitude float64
	Name      string
	Timezone  string // IANA zone name from the cities dataset
}

// NewGeocoder creates a new geocoder
func NewGeocoder() *Geocoder {
	return &Geocoder{}
}

// Geocode converts a query ("City" or "City, CC" with an ISO country
// code) to coordinates. Ambiguous names resolve to the most populous
// match.
func (g *Geocoder) Geocode(ctx context.Context, query string) (*Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	parts := strings.Split(query, ",")
	switch len(parts) {
	case 1:
		return lookupCity(strings.TrimSpace(parts[0]), "")
	case 2:
		city := strings.TrimSpace(parts[0])
		country := strings.ToUpper(strings.TrimSpace(parts[1]))
		if city == "" || country == "" {
			return nil, fmt.Errorf("city and country cannot be empty")
		}
		if !isCountryCode(country) {
			return nil, fmt.Errorf("invalid country code %q: expected two letters (e.g. 'Oslo, NO')", country)
		}
		return lookupCity(city, country)
	default:
		return nil, fmt.Errorf("invalid format: expected 'City' or 'City, CC' (e.g. 'Oslo, NO')")
	}
}

// isCountryCode checks whether a string looks like an ISO 3166-1 alpha-2
// country code
func isCountryCode(s string) bool {
	matched, _ := regexp.MatchString(`^[A-Z]{2}$`, s)
	return matched
}
