package models

import "time"

// Profile is a named, saved clock configuration tied to a place. Profiles
// are what the settings repository persists; the clock itself only ever
// sees the embedded parameters.
type Profile struct {
	ID         int64
	Name       string
	Parameters ClockParameters

	// Where the user is, for sunrise/sunset and drift-city lookups.
	PlaceName  string
	Coordinate GeoCoordinate
	Timezone   string // IANA zone name, e.g. "Europe/Amsterdam"

	CreatedAt time.Time
}

// Location resolves the profile's IANA timezone, falling back to the
// local zone when the stored name does not resolve.
func (p *Profile) Location() *time.Location {
	if p.Timezone != "" {
		if loc, err := time.LoadLocation(p.Timezone); err == nil {
			return loc
		}
	}
	return time.Local
}
