// Package solar computes sunrise and sunset instants from a coordinate,
// a calendar date and a time zone, using the classic sunrise equation.
// Everything here is pure; the package never asks where the user is.
package solar

import (
	"math"
	"time"

	"github.com/non24/circaterm/internal/models"
)

// zenith is the official sunrise/sunset zenith: 90 degrees plus
// refraction plus the solar disc radius.
const zenith = 90.833

// Compute returns the sunrise (isSunrise true) or sunset instant for the
// calendar day containing date, interpreted in loc. The second return is
// false when the event does not occur on that day at that latitude
// (polar day or polar night) - a normal outcome, not an error.
func Compute(coord models.GeoCoordinate, date time.Time, loc *time.Location, isSunrise bool) (time.Time, bool) {
	local := date.In(loc)
	dayOfYear := float64(local.YearDay())

	// Longitude expressed in hours, and a first approximation of the
	// event time in fractional days.
	lngHour := coord.Longitude / 15
	baseHour := 18.0
	if isSunrise {
		baseHour = 6.0
	}
	approxTime := dayOfYear + (baseHour-lngHour)/24

	// Sun's mean anomaly, then true longitude.
	meanAnomaly := 0.9856*approxTime - 3.289
	trueLongitude := normalizeDegrees(meanAnomaly +
		1.916*sinDeg(meanAnomaly) +
		0.020*sinDeg(2*meanAnomaly) +
		282.634)

	// Right ascension, corrected into the same quadrant as the true
	// longitude, then converted to hours.
	rightAscension := normalizeDegrees(atanDeg(0.91764 * tanDeg(trueLongitude)))
	lQuadrant := math.Floor(trueLongitude/90) * 90
	raQuadrant := math.Floor(rightAscension/90) * 90
	rightAscension = (rightAscension + lQuadrant - raQuadrant) / 15

	// Declination of the sun.
	sinDec := 0.39782 * sinDeg(trueLongitude)
	cosDec := cosDeg(asinDeg(sinDec))

	// Local hour angle. Outside [-1,1] the sun never crosses the zenith
	// on this day at this latitude.
	cosHourAngle := (cosDeg(zenith) - sinDec*sinDeg(coord.Latitude)) /
		(cosDec * cosDeg(coord.Latitude))
	if cosHourAngle < -1 || cosHourAngle > 1 {
		return time.Time{}, false
	}

	hourAngle := acosDeg(cosHourAngle)
	if isSunrise {
		hourAngle = 360 - hourAngle
	}
	hourAngle /= 15

	localMeanTime := hourAngle + rightAscension - 0.06571*approxTime - 6.622
	universalTime := normalizeHours(localMeanTime - lngHour)

	// Shift from UTC into the zone's civil time, evaluating the offset at
	// the local day start so daylight-saving transitions use the right
	// offset. Large offsets can push the result across midnight; keep
	// folding until the hour is back in [0,24).
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	_, zoneOffset := dayStart.Zone()
	localHours := universalTime + float64(zoneOffset)/3600

	dayShift := 0
	for localHours < 0 {
		localHours += 24
		dayShift--
	}
	for localHours >= 24 {
		localHours -= 24
		dayShift++
	}
	if dayShift != 0 {
		shifted := dayStart.AddDate(0, 0, dayShift)
		dayStart = time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, loc)
	}

	seconds := time.Duration(localHours * float64(time.Hour))
	return dayStart.Add(seconds), true
}

// Sunrise is shorthand for Compute with isSunrise = true.
func Sunrise(coord models.GeoCoordinate, date time.Time, loc *time.Location) (time.Time, bool) {
	return Compute(coord, date, loc, true)
}

// Sunset is shorthand for Compute with isSunrise = false.
func Sunset(coord models.GeoCoordinate, date time.Time, loc *time.Location) (time.Time, bool) {
	return Compute(coord, date, loc, false)
}

// NextSunrise returns the first sunrise strictly after the given instant,
// looking at the instant's calendar day and the following one. False when
// neither day has a sunrise.
func NextSunrise(coord models.GeoCoordinate, after time.Time, loc *time.Location) (time.Time, bool) {
	return nextEvent(coord, after, loc, true)
}

// NextSunset returns the first sunset strictly after the given instant.
func NextSunset(coord models.GeoCoordinate, after time.Time, loc *time.Location) (time.Time, bool) {
	return nextEvent(coord, after, loc, false)
}

func nextEvent(coord models.GeoCoordinate, after time.Time, loc *time.Location, isSunrise bool) (time.Time, bool) {
	today := after.In(loc)
	if event, ok := Compute(coord, today, loc, isSunrise); ok && event.After(after) {
		return event, true
	}
	tomorrow := today.AddDate(0, 0, 1)
	if event, ok := Compute(coord, tomorrow, loc, isSunrise); ok && event.After(after) {
		return event, true
	}
	return time.Time{}, false
}

// EventsForDay computes both events for one calendar day.
func EventsForDay(coord models.GeoCoordinate, date time.Time, loc *time.Location) models.SunEvent {
	local := date.In(loc)
	event := models.SunEvent{
		Date: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
	}
	event.Rise, event.HasRise = Sunrise(coord, date, loc)
	event.Set, event.HasSet = Sunset(coord, date, loc)
	return event
}
