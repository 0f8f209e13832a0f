package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/non24/circaterm/internal/driftcity"
)

// renderDriftPane describes how the biological day drifts against the
// 24-hour civil day, and where on Earth the body currently "lives".
func (m Model) renderDriftPane() string {
	if m.profile == nil {
		return mutedStyle.Render("No drift data available")
	}

	dayLen := m.profile.Parameters.DayLength
	var lines []string

	h := int(dayLen.Hours())
	min := int(dayLen.Minutes()) % 60
	lines = append(lines, fmt.Sprintf("%s %s",
		labelStyle.Render("Cycle length:"),
		valueStyle.Render(fmt.Sprintf("%d:%02d", h, min))))

	perDay := dayLen - 24*time.Hour
	switch {
	case perDay > 0:
		lines = append(lines, fmt.Sprintf("%s your clock slips %s later each day",
			labelStyle.Render("Daily drift:"), formatDuration(perDay)))
	case perDay < 0:
		lines = append(lines, fmt.Sprintf("%s your clock runs %s earlier each day",
			labelStyle.Render("Daily drift:"), formatDuration(-perDay)))
	default:
		lines = append(lines, labelStyle.Render("Daily drift:")+" none - a 24-hour cycle")
	}

	if perDay != 0 {
		// Full cycle: how long until body time and wall time realign.
		cycleDays := (24 * time.Hour).Seconds() / absSeconds(perDay)
		lines = append(lines, fmt.Sprintf("%s realigns with local time every %.0f days",
			labelStyle.Render("Full cycle:"), cycleDays))
	}

	drift := driftcity.DriftAt(m.clockState.Offset, m.now, m.locStatus.Location())
	lines = append(lines, fmt.Sprintf("%s body is %s local time",
		labelStyle.Render("Right now:"), describeDrift(drift)))

	switch {
	case m.drift != nil:
		lines = append(lines, fmt.Sprintf("%s %s",
			labelStyle.Render("Body city:"),
			valueStyle.Render(fmt.Sprintf("living on %s time (%s)", m.drift.CityName, m.drift.Timezone))))
	case errors.Is(m.driftErr, driftcity.ErrNoMatch):
		lines = append(lines, mutedStyle.Render("No city matches your current drift"))
	case m.driftErr != nil:
		lines = append(lines, mutedStyle.Render("Drift city lookup unavailable"))
	default:
		lines = append(lines, mutedStyle.Render("Looking up your body's city..."))
	}

	return strings.Join(lines, "\n")
}

// describeDrift turns a signed drift into "3h10m ahead of" phrasing.
func describeDrift(d time.Duration) string {
	switch {
	case d > time.Minute:
		return fmt.Sprintf("%s ahead of", formatDuration(d))
	case d < -time.Minute:
		return fmt.Sprintf("%s behind", formatDuration(-d))
	default:
		return "in sync with"
	}
}

func absSeconds(d time.Duration) float64 {
	s := d.Seconds()
	if s < 0 {
		return -s
	}
	return s
}
