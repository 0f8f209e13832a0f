// Package bioclock maps real-world instants onto a cyclic biological day
// of arbitrary length. All functions are pure; parameters are never
// mutated and no state is shared.
package bioclock

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/non24/circaterm/internal/models"
)

var (
	// ErrNonPositiveDayLength is returned when clock parameters carry a
	// zero or negative day length.
	ErrNonPositiveDayLength = errors.New("day length must be positive")

	// ErrNegativeComponent is returned when a user-entered time component
	// is negative.
	ErrNegativeComponent = errors.New("time components must be non-negative")

	// ErrZeroLengthDay is returned when user-entered components sum to
	// zero.
	ErrZeroLengthDay = errors.New("day length must be greater than zero")
)

// StateAt computes the biological day index and intra-day offset for the
// given instant. The returned offset always satisfies
// 0 <= offset < dayLength, even when floating-point residue at a cycle
// boundary would otherwise produce a negative value.
func StateAt(params models.ClockParameters, instant time.Time) (models.ClockState, error) {
	if params.DayLength <= 0 {
		return models.ClockState{}, ErrNonPositiveDayLength
	}

	dayLen := params.DayLength.Seconds()
	elapsed := instant.Sub(params.ReferenceStart).Seconds()

	completed := math.Floor(elapsed / dayLen)
	offset := elapsed - completed*dayLen

	// Rounding near the boundary can leave the offset a hair outside the
	// half-open interval; fold it back and adjust the day count.
	if offset < 0 {
		offset += dayLen
		completed--
	}
	if offset >= dayLen {
		offset -= dayLen
		completed++
	}

	return models.ClockState{
		DayIndex:  params.ReferenceDayIndex + int64(completed),
		Offset:    time.Duration(offset * float64(time.Second)),
		DayLength: params.DayLength,
	}, nil
}

// NextOccurrence returns the first instant at or after `after` whose
// biological offset equals target. Target may be any duration; it is
// normalized into [0, dayLength) with a floored modulo first, so negative
// targets and targets beyond one day behave as expected.
func NextOccurrence(params models.ClockParameters, target time.Duration, after time.Time) (time.Time, error) {
	state, err := StateAt(params, after)
	if err != nil {
		return time.Time{}, err
	}

	dayLen := params.DayLength.Seconds()
	normalized := math.Mod(target.Seconds(), dayLen)
	if normalized < 0 {
		normalized += dayLen
	}

	current := state.Offset.Seconds()
	var wait float64
	if normalized > current {
		wait = normalized - current
	} else {
		wait = (dayLen - current) + normalized
	}

	return after.Add(time.Duration(wait * float64(time.Second))), nil
}

// DayLengthFromComponents builds a day length from user-entered hours,
// minutes and seconds. Components must each be non-negative and sum to a
// strictly positive duration; invalid input is surfaced for re-prompting
// rather than silently corrected.
func DayLengthFromComponents(hours, minutes, seconds int) (time.Duration, error) {
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("%d:%02d:%02d: %w", hours, minutes, seconds, ErrNegativeComponent)
	}
	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second
	if d == 0 {
		return 0, ErrZeroLengthDay
	}
	return d, nil
}
