package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/non24/circaterm/internal/bioclock"
)

// The onboarding wizard walks through three entries: how long the
// biological day lasts, when the user woke today, and where they are.

// parseDayLength accepts "25", "24:48" or "24:48:30" and validates it
// through the clock model so the user sees its errors, not ours.
func parseDayLength(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("expected H, H:MM or H:MM:SS")
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", part)
		}
		nums[i] = n
	}

	return bioclock.DayLengthFromComponents(nums[0], nums[1], nums[2])
}

// parseClockTime accepts "7:30" or "07:30" as a time of day.
func parseClockTime(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM")
	}
	hour, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour must be 0-23")
	}
	minute, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute must be 0-59")
	}
	return hour, minute, nil
}

// todayAt returns today's date at the given wall-clock time.
func todayAt(hour, minute int, loc *time.Location) time.Time {
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
}

// viewOnboarding renders the current wizard step
func (m Model) viewOnboarding() string {
	var title, prompt, example string
	var input string

	switch m.state {
	case StateOnboardDayLength:
		title = "Step 1 of 3 - Your biological day"
		prompt = "How long is one of your days?"
		example = "Examples: 25 | 24:48 | 25:15"
		input = m.dayLengthInput.View()
	case StateOnboardWakeTime:
		title = "Step 2 of 3 - Today's wake time"
		prompt = "When did you wake up today?"
		example = "Examples: 07:30 | 14:00"
		input = m.wakeTimeInput.View()
	case StateOnboardPlace:
		title = "Step 3 of 3 - Where you are"
		prompt = "Your city, for sunrise times and drift mapping:"
		example = "Examples: Oslo | Portland, US | Tokyo, JP"
		input = m.placeInput.View()
	}

	header := titleStyle.Render("☀ circaterm setup")
	step := labelStyle.Render(title)

	inputBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2).
		Width(52).
		Render(input)

	var sections []string
	sections = append(sections, header, "", step, "", prompt, inputBox)

	if m.err != nil {
		sections = append(sections, "", errorStyle.Render("✗ "+m.err.Error()))
	}

	sections = append(sections, "", mutedStyle.Render(example))
	sections = append(sections, helpStyle.Render("Enter: Continue • Ctrl+C: Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
