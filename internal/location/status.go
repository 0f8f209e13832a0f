// Package location models the availability of the user's location as an
// explicit tagged state. The solar calculator stays pure; whoever owns a
// Status decides whether there is a coordinate to hand it.
package location

import (
	"time"

	"github.com/non24/circaterm/internal/models"
)

// Phase tags the lifecycle of a location request.
type Phase int

const (
	PhaseNotDetermined Phase = iota // nothing asked yet
	PhaseResolving                  // lookup in flight
	PhaseAvailable                  // coordinate and zone known
	PhaseFailed                     // lookup failed
)

// Status is the current location state. Coordinate, PlaceName and
// Timezone are meaningful only in PhaseAvailable; Err only in
// PhaseFailed.
type Status struct {
	Phase      Phase
	Coordinate models.GeoCoordinate
	PlaceName  string
	Timezone   string
	Err        error
}

// NotDetermined is the zero status.
func NotDetermined() Status {
	return Status{Phase: PhaseNotDetermined}
}

// Resolving marks a lookup as in flight.
func Resolving() Status {
	return Status{Phase: PhaseResolving}
}

// Available builds a resolved status.
func Available(coord models.GeoCoordinate, place, timezone string) Status {
	return Status{
		Phase:      PhaseAvailable,
		Coordinate: coord,
		PlaceName:  place,
		Timezone:   timezone,
	}
}

// Failed builds a failed status.
func Failed(err error) Status {
	return Status{Phase: PhaseFailed, Err: err}
}

// Location resolves the status's IANA zone, defaulting to local time
// when unavailable.
func (s Status) Location() *time.Location {
	if s.Phase == PhaseAvailable && s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	return time.Local
}

// HasCoordinate reports whether a coordinate may be read from the status.
func (s Status) HasCoordinate() bool {
	return s.Phase == PhaseAvailable
}
