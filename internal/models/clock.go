package models

import "time"

// ClockParameters configures a biological clock: how long one biological
// day lasts and which real-world instant marks offset zero of the
// reference day.
type ClockParameters struct {
	DayLength         time.Duration // must be > 0
	ReferenceStart    time.Time     // biological offset 0 of the reference day
	ReferenceDayIndex int64

	// Optional user preferences. Nil means "use the default".
	WakeOffset    *time.Duration // intra-day offset treated as wake time
	SleepDuration *time.Duration // clamped to [3h, 14h] on normalization
}

// ClockState is the position of an instant within the biological cycle.
// It is derived on demand and never persisted.
type ClockState struct {
	DayIndex  int64
	Offset    time.Duration // 0 <= Offset < DayLength
	DayLength time.Duration
}

// Progress returns how far through the biological day the state is,
// clamped to [0, 1] so rendering code never sees an out-of-range value.
func (s ClockState) Progress() float64 {
	if s.DayLength <= 0 {
		return 0
	}
	p := s.Offset.Seconds() / s.DayLength.Seconds()
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Remaining returns the time left in the current biological day, never
// negative.
func (s ClockState) Remaining() time.Duration {
	r := s.DayLength - s.Offset
	if r < 0 {
		return 0
	}
	return r
}

// Clock decomposes the intra-day offset into hours, minutes and seconds.
func (s ClockState) Clock() (hours, minutes, seconds int) {
	total := int(s.Offset.Seconds())
	return total / 3600, (total % 3600) / 60, total % 60
}
