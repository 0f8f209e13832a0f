package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/non24/circaterm/internal/bioclock"
)

// dialSegments is the resolution of the day bar.
const dialSegments = 48

// renderDialPane renders the biological day as a segmented bar with the
// sleep band marked, plus the numbers behind it.
func (m Model) renderDialPane() string {
	if m.profile == nil {
		return mutedStyle.Render("No clock data available")
	}

	params := m.profile.Parameters
	state := m.clockState

	var lines []string

	// Biological wall clock
	h, min, sec := state.Clock()
	bioTime := fmt.Sprintf("%02d:%02d:%02d", h, min, sec)
	lines = append(lines, fmt.Sprintf("%s %s   %s %d",
		labelStyle.Render("Body time:"),
		valueStyle.Render(bioTime),
		labelStyle.Render("Day"),
		state.DayIndex))

	lines = append(lines, "  "+m.renderDayBar())

	lines = append(lines, fmt.Sprintf("%s %.0f%% of today's cycle • %s remaining",
		labelStyle.Render("Progress:"),
		state.Progress()*100,
		formatDuration(state.Remaining())))

	// Countdown to the next wake time
	wake := bioclock.NormalizeWakeOffset(params.WakeOffset)
	if nextWake, err := bioclock.NextOccurrence(params, wake, m.now); err == nil {
		lines = append(lines, fmt.Sprintf("%s %s (%s)",
			labelStyle.Render("Next wake:"),
			valueStyle.Render(nextWake.In(m.locStatus.Location()).Format("Mon 15:04")),
			formatDuration(nextWake.Sub(m.now))))
	}

	return strings.Join(lines, "\n")
}

// renderDayBar draws the day as dialSegments cells: sleep band shaded,
// waking hours bright, current position marked.
func (m Model) renderDayBar() string {
	params := m.profile.Parameters
	state := m.clockState
	dayLen := params.DayLength

	wake := bioclock.NormalizeWakeOffset(params.WakeOffset)
	sleep := bioclock.NormalizeSleepDuration(params.SleepDuration)
	sleepStart := wake - sleep
	for sleepStart < 0 {
		sleepStart += dayLen
	}

	position := int(float64(dialSegments) * state.Progress())
	if position >= dialSegments {
		position = dialSegments - 1
	}

	var bar strings.Builder
	for i := 0; i < dialSegments; i++ {
		segStart := time.Duration(float64(dayLen) * float64(i) / dialSegments)

		inSleep := false
		since := segStart - sleepStart
		for since < 0 {
			since += dayLen
		}
		if since < sleep {
			inSleep = true
		}

		switch {
		case i == position:
			bar.WriteString(titleStyle.Render("●"))
		case inSleep:
			bar.WriteString(nightStyle.Render("▒"))
		default:
			bar.WriteString(dayStyle.Render("█"))
		}
	}

	return bar.String()
}

// formatDuration renders a duration as "3h12m" or "42m" for countdowns.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	h := int(d.Hours())
	min := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", min)
	}
	return fmt.Sprintf("%dh%02dm", h, min)
}
