package models

import "time"

// SunEvent holds the sunrise and sunset instants for one calendar day.
// A zero Rise or Set with the corresponding HasRise/HasSet flag unset
// means the event does not occur that day (polar day or night).
type SunEvent struct {
	Date    time.Time // midnight at the start of the day, in the query zone
	Rise    time.Time
	Set     time.Time
	HasRise bool
	HasSet  bool
}

// Daylight returns the day's sunlit duration, or 0 when either event is
// missing.
func (e SunEvent) Daylight() time.Duration {
	if !e.HasRise || !e.HasSet || e.Set.Before(e.Rise) {
		return 0
	}
	return e.Set.Sub(e.Rise)
}
