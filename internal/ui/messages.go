package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/non24/circaterm/internal/database"
	"github.com/non24/circaterm/internal/driftcity"
	"github.com/non24/circaterm/internal/geocoding"
	"github.com/non24/circaterm/internal/models"
	"github.com/non24/circaterm/internal/settings"
	"github.com/non24/circaterm/internal/tzlookup"
)

// Message types for async operations

// errMsg is a message type for errors
type errMsg struct {
	err error
}

// tickMsg drives the dashboard refresh
type tickMsg time.Time

// profilesLoadedMsg is sent when saved profiles have been read
type profilesLoadedMsg struct {
	profiles []models.Profile
	err      error
}

// profileSavedMsg is sent when onboarding has persisted a new profile
type profileSavedMsg struct {
	profile *models.Profile
	err     error
}

// driftCityMsg is sent when the drift-city lookup completes
type driftCityMsg struct {
	match *driftcity.Match
	err   error
}

// Provisioning messages

// provisioningStartedMsg carries the channels the provisioning goroutine
// reports on
type provisioningStartedMsg struct {
	progressChan chan string
	resultChan   chan error
}

// provisionStatusMsg is a progress update from the provisioning goroutine
type provisionStatusMsg string

// provisionResultMsg is the final provisioning outcome
type provisionResultMsg struct {
	err error
}

// tick schedules the next dashboard refresh
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadProfiles reads saved profiles in the background
func loadProfiles(service *settings.Service) tea.Cmd {
	return func() tea.Msg {
		profiles, err := service.ListProfiles()
		return profilesLoadedMsg{profiles: profiles, err: err}
	}
}

// createProfile geocodes the place and persists a new profile
func createProfile(service *settings.Service, name, place string, params models.ClockParameters) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		profile, err := service.CreateProfile(ctx, name, place, params)
		return profileSavedMsg{profile: profile, err: err}
	}
}

// findDriftCity looks up the city whose clocks match the biological time
func findDriftCity(drift time.Duration, local *time.Location) tea.Cmd {
	return func() tea.Msg {
		match, err := driftcity.Find(database.DBPath(), drift, local, time.Now())
		return driftCityMsg{match: match, err: err}
	}
}

// initiateProvisioning starts the one-time dataset downloads in a
// goroutine and hands the progress channels back to the model
func initiateProvisioning() tea.Cmd {
	return func() tea.Msg {
		progressChan := make(chan string, 8)
		resultChan := make(chan error, 1)

		go func() {
			dbPath := database.DBPath()

			progressChan <- "Downloading world cities database..."
			if err := geocoding.ProvisionCitiesDatabase(dbPath); err != nil {
				resultChan <- err
				return
			}

			progressChan <- "Downloading timezone boundaries..."
			if err := tzlookup.ProvisionDatabase(dbPath); err != nil {
				resultChan <- err
				return
			}

			resultChan <- nil
		}()

		return provisioningStartedMsg{progressChan: progressChan, resultChan: resultChan}
	}
}

// waitForProvisionStatus relays the next progress update
func waitForProvisionStatus(progressChan chan string) tea.Cmd {
	return func() tea.Msg {
		return provisionStatusMsg(<-progressChan)
	}
}

// waitForProvisionResult relays the final provisioning outcome
func waitForProvisionResult(resultChan chan error) tea.Cmd {
	return func() tea.Msg {
		return provisionResultMsg{err: <-resultChan}
	}
}
