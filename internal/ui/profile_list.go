package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/non24/circaterm/internal/models"
)

// profileItem wraps a Profile for use in a list
type profileItem struct {
	profile models.Profile
}

// FilterValue implements list.Item
func (p profileItem) FilterValue() string {
	return p.profile.Name
}

// Title implements list.DefaultItem
func (p profileItem) Title() string {
	return p.profile.Name
}

// Description implements list.DefaultItem
func (p profileItem) Description() string {
	dayLength := p.profile.Parameters.DayLength
	h := int(dayLength.Hours())
	min := int(dayLength.Minutes()) % 60
	desc := fmt.Sprintf("%d:%02d day", h, min)
	if p.profile.PlaceName != "" {
		desc += fmt.Sprintf(" • %s", p.profile.PlaceName)
	}
	return desc
}

// createProfileList creates a list.Model from profiles
func createProfileList(profiles []models.Profile, width, height int) list.Model {
	items := make([]list.Item, len(profiles))
	for i, profile := range profiles {
		items[i] = profileItem{profile: profile}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Select a Profile"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)

	return l
}
