package bioclock

import (
	"time"

	"github.com/non24/circaterm/internal/models"
)

const (
	// DefaultSleepDuration is substituted when the user has not set one.
	DefaultSleepDuration = 7*time.Hour + 30*time.Minute

	// DefaultWakeOffset is the intra-day offset treated as wake time when
	// the user has not set one.
	DefaultWakeOffset = 6 * time.Hour

	minSleepDuration = 3 * time.Hour
	maxSleepDuration = 14 * time.Hour
	sleepStep        = 5 * time.Minute
)

// NormalizeSleepDuration snaps a sleep preference to a 5-minute step and
// clamps it into [3h, 14h]. Nil yields the default. The result is a fixed
// point: normalizing twice returns the same value as normalizing once.
func NormalizeSleepDuration(d *time.Duration) time.Duration {
	if d == nil {
		return DefaultSleepDuration
	}
	snapped := (*d / sleepStep) * sleepStep
	if snapped < minSleepDuration {
		return minSleepDuration
	}
	if snapped > maxSleepDuration {
		return maxSleepDuration
	}
	return snapped
}

// NormalizeWakeOffset substitutes the default wake offset for nil.
func NormalizeWakeOffset(d *time.Duration) time.Duration {
	if d == nil {
		return DefaultWakeOffset
	}
	return *d
}

// NormalizeParameters returns a copy of params with the sleep and wake
// preferences filled in and normalized. Callers apply this before saving;
// the storage layer itself never rewrites what it is given.
func NormalizeParameters(params models.ClockParameters) models.ClockParameters {
	sleep := NormalizeSleepDuration(params.SleepDuration)
	wake := NormalizeWakeOffset(params.WakeOffset)
	params.SleepDuration = &sleep
	params.WakeOffset = &wake
	return params
}
