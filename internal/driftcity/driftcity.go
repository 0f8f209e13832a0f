// Package driftcity puts a familiar name on a biological drift: given
// how far the user's body clock has drifted from local civil time, it
// finds the timezone whose clocks currently agree with the body and
// names its best-known city ("your body is living on Tokyo time").
package driftcity

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/non24/circaterm/internal/geocoding"
)

// ErrNoMatch is returned when no inhabited timezone sits close enough to
// the wanted offset. A normal outcome for odd drifts, distinct from
// database failures.
var ErrNoMatch = errors.New("no timezone matches the current drift")

// Match is the city whose civil time matches the user's biological time.
type Match struct {
	CityName string
	Timezone string
	// Offset between the matched zone's clocks and the wanted biological
	// time. Zero for an exact match; at most ±30 min otherwise.
	Residual time.Duration
}

// matchTolerance is how far a zone's offset may sit from the wanted one
// and still count as "living there".
const matchTolerance = 30 * time.Minute

// Find locates the zone whose current UTC offset equals the local zone's
// offset shifted by drift. Drift is biological time minus civil time:
// positive when the body runs ahead of the wall clock.
func Find(dbPath string, drift time.Duration, local *time.Location, now time.Time) (*Match, error) {
	_, localOffset := now.In(local).Zone()

	// Wanted offset, folded into the inhabited range of UTC offsets
	// [-12h, +14h].
	wanted := float64(localOffset) + drift.Seconds()
	for wanted > 14*3600 {
		wanted -= 24 * 3600
	}
	for wanted < -12*3600 {
		wanted += 24 * 3600
	}

	zones, err := geocoding.DistinctTimezones(dbPath)
	if err != nil {
		return nil, fmt.Errorf("listing timezones: %w", err)
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("no timezones available")
	}

	var candidates []string
	bestResidual := math.Inf(1)
	for _, zone := range zones {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			continue
		}
		_, offset := now.In(loc).Zone()
		residual := math.Abs(float64(offset) - wanted)

		switch {
		case residual < bestResidual-1:
			bestResidual = residual
			candidates = candidates[:0]
			candidates = append(candidates, zone)
		case math.Abs(residual-bestResidual) <= 1:
			candidates = append(candidates, zone)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no matching timezone for drift %v", drift)
	}
	if bestResidual > matchTolerance.Seconds() {
		return nil, fmt.Errorf("no timezone within %v of drift %v: %w", matchTolerance, drift, ErrNoMatch)
	}

	// Among equally close zones, the most populous city wins.
	city, err := geocoding.MostPopulousCityInZones(dbPath, candidates)
	if err != nil {
		return nil, fmt.Errorf("naming drift city: %w", err)
	}

	loc, err := time.LoadLocation(city.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading matched zone: %w", err)
	}
	_, offset := now.In(loc).Zone()

	return &Match{
		CityName: city.Name,
		Timezone: city.Timezone,
		Residual: time.Duration(float64(offset)-wanted) * time.Second,
	}, nil
}

// DriftAt computes the drift for Find: biological time of day minus
// civil time of day, treating biological offset 0 as midnight.
func DriftAt(bioOffset time.Duration, now time.Time, local *time.Location) time.Duration {
	localNow := now.In(local)
	civilSeconds := float64(localNow.Hour()*3600 + localNow.Minute()*60 + localNow.Second())

	drift := bioOffset.Seconds() - civilSeconds

	// Fold into (-12h, +12h] so "20 hours ahead" reads as "4 behind".
	for drift > 12*3600 {
		drift -= 24 * 3600
	}
	for drift <= -12*3600 {
		drift += 24 * 3600
	}
	return time.Duration(drift) * time.Second
}
