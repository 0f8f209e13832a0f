package ui

import (
	"fmt"
	"strings"

	"github.com/non24/circaterm/internal/location"
	"github.com/non24/circaterm/internal/solar"
)

// renderSunPane shows the next sunrise and sunset for the profile's
// location, or why they cannot be shown.
func (m Model) renderSunPane() string {
	switch m.locStatus.Phase {
	case location.PhaseNotDetermined:
		return mutedStyle.Render("No location set - add one to see sunrise times")
	case location.PhaseResolving:
		return mutedStyle.Render("Resolving location...")
	case location.PhaseFailed:
		return mutedStyle.Render("Location unavailable: " + m.locStatus.Err.Error())
	}

	coord := m.locStatus.Coordinate
	loc := m.locStatus.Location()
	var lines []string

	if sunrise, ok := solar.NextSunrise(coord, m.now, loc); ok {
		lines = append(lines, fmt.Sprintf("%s %s (in %s)",
			labelStyle.Render("Next sunrise:"),
			valueStyle.Render(sunrise.Format("Mon 15:04")),
			formatDuration(sunrise.Sub(m.now))))
	} else {
		lines = append(lines, nightStyle.Render("☾ Polar night - the sun is not rising here"))
	}

	if sunset, ok := solar.NextSunset(coord, m.now, loc); ok {
		lines = append(lines, fmt.Sprintf("%s %s (in %s)",
			labelStyle.Render("Next sunset:"),
			valueStyle.Render(sunset.Format("Mon 15:04")),
			formatDuration(sunset.Sub(m.now))))
	} else {
		lines = append(lines, dayStyle.Render("☀ Midnight sun - the sun is not setting here"))
	}

	today := solar.EventsForDay(coord, m.now.In(loc), loc)
	if daylight := today.Daylight(); daylight > 0 {
		lines = append(lines, fmt.Sprintf("%s %s of daylight today",
			labelStyle.Render("Daylight:"), formatDuration(daylight)))
	}

	return strings.Join(lines, "\n")
}
