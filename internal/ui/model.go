package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/non24/circaterm/internal/bioclock"
	"github.com/non24/circaterm/internal/database"
	"github.com/non24/circaterm/internal/driftcity"
	"github.com/non24/circaterm/internal/geocoding"
	"github.com/non24/circaterm/internal/location"
	"github.com/non24/circaterm/internal/models"
	"github.com/non24/circaterm/internal/settings"
	"github.com/non24/circaterm/internal/tzlookup"
)

// AppState represents the current state of the application
type AppState int

const (
	StateLoading          AppState = iota // Initial load / async work in flight
	StateProvisioning                     // One-time dataset download/build
	StateOnboardDayLength                 // Wizard step 1: biological day length
	StateOnboardWakeTime                  // Wizard step 2: today's wake time
	StateOnboardPlace                     // Wizard step 3: place search
	StateProfileList                      // Choose a saved profile
	StateDashboard                        // The clock dashboard
	StateError                            // Error state
)

// ActivePane represents which dashboard pane is currently focused
type ActivePane int

const (
	PaneDial ActivePane = iota
	PaneDrift
	PaneSun
)

// driftRefreshInterval is how often the drift-city lookup reruns while
// the dashboard is visible.
const driftRefreshInterval = 5 * time.Minute

// Model represents the application's state
type Model struct {
	state      AppState
	activePane ActivePane
	width      int
	height     int
	err        error

	// Requested at startup via --profile
	requestedProfile string

	service *settings.Service

	// Onboarding wizard
	dayLengthInput   textinput.Model
	wakeTimeInput    textinput.Model
	placeInput       textinput.Model
	pendingDayLength time.Duration
	pendingWakeHour  int
	pendingWakeMin   int

	// Profiles
	profiles    []models.Profile
	profileList list.Model
	profile     *models.Profile

	// Location availability, exposed to the panes as a tagged state
	locStatus location.Status

	// Dashboard data, recomputed every tick
	now          time.Time
	clockState   models.ClockState
	drift        *driftcity.Match
	driftErr     error
	lastDriftRun time.Time

	// Provisioning
	spinner           spinner.Model
	provisionStatus   string
	provisionChannels *provisioningStartedMsg
}

// NewModel creates a new application model
func NewModel(profileName string) Model {
	dayLength := textinput.New()
	dayLength.Placeholder = "24:48"
	dayLength.CharLimit = 8
	dayLength.Width = 40
	dayLength.Focus()

	wakeTime := textinput.New()
	wakeTime.Placeholder = "07:30"
	wakeTime.CharLimit = 5
	wakeTime.Width = 40

	place := textinput.New()
	place.Placeholder = "Enter a city (e.g. Oslo or Portland, US)..."
	place.CharLimit = 100
	place.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		state:            StateLoading,
		activePane:       PaneDial,
		requestedProfile: profileName,
		service:          settings.NewService(),
		dayLengthInput:   dayLength,
		wakeTimeInput:    wakeTime,
		placeInput:       place,
		locStatus:        location.NotDetermined(),
		spinner:          s,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	dbPath := database.DBPath()

	citiesNeeded, err := geocoding.NeedsProvisioning(dbPath)
	if err != nil {
		return loadProfiles(m.service)
	}
	zonesNeeded, err := tzlookup.NeedsProvisioning(dbPath)
	if err != nil {
		return loadProfiles(m.service)
	}

	if citiesNeeded || zonesNeeded {
		return tea.Batch(m.spinner.Tick, initiateProvisioning())
	}

	return loadProfiles(m.service)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if m.state == StateProfileList {
			m.profileList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil
	}

	// Handle custom messages
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	// Provisioning messages
	case provisioningStartedMsg:
		m.state = StateProvisioning
		m.provisionStatus = "Starting data provisioning..."
		m.provisionChannels = &msg
		return m, tea.Batch(
			waitForProvisionStatus(msg.progressChan),
			waitForProvisionResult(msg.resultChan),
		)

	case provisionStatusMsg:
		m.provisionStatus = string(msg)
		if m.provisionChannels != nil {
			return m, waitForProvisionStatus(m.provisionChannels.progressChan)
		}
		return m, nil

	case provisionResultMsg:
		m.provisionChannels = nil
		if msg.err != nil {
			m.err = fmt.Errorf("provisioning failed: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		m.state = StateLoading
		return m, loadProfiles(m.service)

	case profilesLoadedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("loading profiles: %w", msg.err)
			m.state = StateError
			return m, nil
		}
		m.profiles = msg.profiles

		if m.requestedProfile != "" {
			for i := range msg.profiles {
				if msg.profiles[i].Name == m.requestedProfile {
					return m.openProfile(&msg.profiles[i])
				}
			}
			m.err = fmt.Errorf("profile %q not found", m.requestedProfile)
			m.requestedProfile = ""
			m.state = StateError
			return m, nil
		}

		if len(msg.profiles) == 0 {
			return m.startOnboarding()
		}
		m.profileList = createProfileList(msg.profiles, m.width-4, m.height-10)
		m.state = StateProfileList
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			// Bad place entry: stay on the wizard step for re-prompting
			m.err = msg.err
			m.state = StateOnboardPlace
			m.placeInput.Focus()
			return m, textinput.Blink
		}
		return m.openProfile(msg.profile)

	case driftCityMsg:
		m.drift = msg.match
		m.driftErr = msg.err
		return m, nil

	case tickMsg:
		if m.state != StateDashboard || m.profile == nil {
			return m, nil
		}
		m.now = time.Time(msg)
		state, err := bioclock.StateAt(m.profile.Parameters, m.now)
		if err != nil {
			m.err = err
			m.state = StateError
			return m, nil
		}
		m.clockState = state

		cmds := []tea.Cmd{tick()}
		if m.now.Sub(m.lastDriftRun) >= driftRefreshInterval {
			m.lastDriftRun = m.now
			loc := m.locStatus.Location()
			cmds = append(cmds, findDriftCity(driftcity.DriftAt(state.Offset, m.now, loc), loc))
		}
		return m, tea.Batch(cmds...)
	}

	// Handle keyboard input
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Global keys
		if keyMsg.String() == "ctrl+c" || keyMsg.String() == "q" {
			return m, tea.Quit
		}

		switch m.state {
		case StateOnboardDayLength, StateOnboardWakeTime, StateOnboardPlace:
			return m.handleOnboarding(keyMsg)

		case StateProfileList:
			return m.handleProfileList(msg)

		case StateDashboard:
			return m.handleDashboardKeys(keyMsg)

		case StateError:
			// Any key returns to the start of the flow
			m.err = nil
			m.state = StateLoading
			return m, loadProfiles(m.service)
		}
	}

	// Update appropriate component based on state
	switch m.state {
	case StateProvisioning, StateLoading:
		m.spinner, cmd = m.spinner.Update(msg)
	case StateOnboardDayLength:
		m.dayLengthInput, cmd = m.dayLengthInput.Update(msg)
	case StateOnboardWakeTime:
		m.wakeTimeInput, cmd = m.wakeTimeInput.Update(msg)
	case StateOnboardPlace:
		m.placeInput, cmd = m.placeInput.Update(msg)
	case StateProfileList:
		m.profileList, cmd = m.profileList.Update(msg)
	}

	return m, cmd
}

// startOnboarding resets and enters the wizard
func (m Model) startOnboarding() (tea.Model, tea.Cmd) {
	m.state = StateOnboardDayLength
	m.err = nil
	m.dayLengthInput.SetValue("")
	m.wakeTimeInput.SetValue("")
	m.placeInput.SetValue("")
	m.dayLengthInput.Focus()
	return m, textinput.Blink
}

// openProfile switches the dashboard onto a profile
func (m Model) openProfile(profile *models.Profile) (tea.Model, tea.Cmd) {
	m.profile = profile
	m.locStatus = location.Available(profile.Coordinate, profile.PlaceName, profile.Timezone)
	m.now = time.Now()

	state, err := bioclock.StateAt(profile.Parameters, m.now)
	if err != nil {
		m.err = err
		m.state = StateError
		return m, nil
	}
	m.clockState = state
	m.state = StateDashboard
	m.activePane = PaneDial
	m.drift = nil
	m.driftErr = nil
	m.lastDriftRun = m.now

	loc := m.locStatus.Location()
	return m, tea.Batch(
		tick(),
		findDriftCity(driftcity.DriftAt(state.Offset, m.now, loc), loc),
	)
}

// handleOnboarding advances the wizard on Enter and feeds everything
// else to the focused input
func (m Model) handleOnboarding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Clear error when typing
	if m.err != nil && msg.Type != tea.KeyEnter {
		m.err = nil
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case StateOnboardDayLength:
			dayLength, err := parseDayLength(m.dayLengthInput.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.pendingDayLength = dayLength
			m.state = StateOnboardWakeTime
			m.dayLengthInput.Blur()
			m.wakeTimeInput.Focus()
			return m, textinput.Blink

		case StateOnboardWakeTime:
			hour, minute, err := parseClockTime(m.wakeTimeInput.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.pendingWakeHour = hour
			m.pendingWakeMin = minute
			m.state = StateOnboardPlace
			m.wakeTimeInput.Blur()
			m.placeInput.Focus()
			return m, textinput.Blink

		case StateOnboardPlace:
			place := m.placeInput.Value()
			if place == "" {
				return m, nil
			}
			m.err = nil
			m.state = StateLoading

			wake := todayAt(m.pendingWakeHour, m.pendingWakeMin, time.Local)
			params := models.ClockParameters{
				DayLength:      m.pendingDayLength,
				ReferenceStart: settings.ReferenceStartForWakeTime(wake, bioclock.DefaultWakeOffset),
			}
			return m, tea.Batch(
				m.spinner.Tick,
				createProfile(m.service, place, place, params),
			)
		}
	}

	switch m.state {
	case StateOnboardDayLength:
		m.dayLengthInput, cmd = m.dayLengthInput.Update(msg)
	case StateOnboardWakeTime:
		m.wakeTimeInput, cmd = m.wakeTimeInput.Update(msg)
	case StateOnboardPlace:
		m.placeInput, cmd = m.placeInput.Update(msg)
	}
	return m, cmd
}

// handleProfileList handles keyboard input in the profile list state
func (m Model) handleProfileList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEnter {
			if item, ok := m.profileList.SelectedItem().(profileItem); ok {
				profile := item.profile
				return m.openProfile(&profile)
			}
		}
		// 'n' starts the wizard for a new profile
		if keyMsg.String() == "n" {
			return m.startOnboarding()
		}
	}

	m.profileList, cmd = m.profileList.Update(msg)
	return m, cmd
}

// handleDashboardKeys handles keyboard input on the dashboard
func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyTab {
		m.activePane = (m.activePane + 1) % 3
		return m, nil
	}
	switch msg.String() {
	case "p":
		m.profile = nil
		m.state = StateLoading
		return m, loadProfiles(m.service)
	case "n":
		return m.startOnboarding()
	}
	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateProvisioning:
		return m.viewProvisioning()
	case StateLoading:
		return m.viewLoading()
	case StateOnboardDayLength, StateOnboardWakeTime, StateOnboardPlace:
		return m.viewOnboarding()
	case StateProfileList:
		return m.viewProfileList()
	case StateDashboard:
		return m.viewDashboard()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewProvisioning renders the initial setup screen
func (m Model) viewProvisioning() string {
	title := titleStyle.Render("☀ circaterm setup")

	sp := m.spinner.View()
	status := mutedStyle.Render(m.provisionStatus)

	info := helpStyle.Render("One-time setup: downloading city and timezone data...")

	return lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		title,
		"",
		fmt.Sprintf("%s %s", sp, status),
		"",
		info,
	)
}

// viewLoading renders the transient loading view
func (m Model) viewLoading() string {
	return fmt.Sprintf("\n %s Working...\n", m.spinner.View())
}

// viewError renders the error view
func (m Model) viewError() string {
	title := errorStyle.Render("✗ Error")

	var errorMsg string
	if m.err != nil {
		errorMsg = m.err.Error()
	} else {
		errorMsg = "An unknown error occurred"
	}

	help := helpStyle.Render("Press any key to continue • Q: Quit")

	var sections []string
	sections = append(sections, title)
	sections = append(sections, "")
	sections = append(sections, errorMsg)
	sections = append(sections, "")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewProfileList renders the saved profile selection list
func (m Model) viewProfileList() string {
	title := titleStyle.Render("☀ circaterm")
	subtitle := mutedStyle.Render(fmt.Sprintf("%d saved profile(s)", len(m.profiles)))

	help := helpStyle.Render("↑/↓: Navigate • Enter: Open • N: New profile • Q: Quit")

	var sections []string
	sections = append(sections, title)
	sections = append(sections, subtitle)
	sections = append(sections, "")
	sections = append(sections, m.profileList.View())
	sections = append(sections, "")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewDashboard renders the main display - simple vertical layout
func (m Model) viewDashboard() string {
	if m.profile == nil {
		return "No profile selected"
	}

	var sections []string

	headerStyle := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Padding(0, 1).
		MarginBottom(1)
	header := headerStyle.Render(fmt.Sprintf("☀ %s - %s", m.profile.Name, m.profile.PlaceName))
	sections = append(sections, header)

	sections = append(sections,
		m.paneHeader("BIOLOGICAL CLOCK", PaneDial),
		m.framePane(m.renderDialPane(), PaneDial),
	)

	sections = append(sections,
		m.paneHeader("DRIFT", PaneDrift),
		m.framePane(m.renderDriftPane(), PaneDrift),
	)

	sections = append(sections,
		m.paneHeader("SUN", PaneSun),
		m.framePane(m.renderSunPane(), PaneSun),
	)

	help := helpStyle.Render("Tab: Switch panes • P: Profiles • N: New profile • Q: Quit")
	sections = append(sections, "", help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// paneHeader renders a section header, highlighted when focused
func (m Model) paneHeader(name string, pane ActivePane) string {
	if m.activePane == pane {
		return activeTitleStyle.Render(" " + name + " ")
	}
	return sectionHeaderStyle.Render(name)
}

// framePane wraps a pane body in its border, thickened when focused
func (m Model) framePane(content string, pane ActivePane) string {
	if m.activePane == pane {
		return activePaneStyle.Render(content)
	}
	return paneStyle.Render(content)
}
