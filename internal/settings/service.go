package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/non24/circaterm/internal/bioclock"
	"github.com/non24/circaterm/internal/database"
	"github.com/non24/circaterm/internal/geocoding"
	"github.com/non24/circaterm/internal/models"
	"github.com/non24/circaterm/internal/tzlookup"
)

// Service orchestrates profile creation: resolve the place, normalize the
// clock parameters, persist the result.
type Service struct {
	repo     *Repository
	geocoder *geocoding.Geocoder
}

// NewService creates a new settings service over the shared database.
func NewService() *Service {
	return &Service{
		repo:     NewRepository(),
		geocoder: geocoding.NewGeocoder(),
	}
}

// CreateProfile geocodes the entered place, fills in its timezone,
// normalizes the parameters and saves the profile under the given name.
func (s *Service) CreateProfile(ctx context.Context, name, place string, params models.ClockParameters) (*models.Profile, error) {
	if params.DayLength <= 0 {
		return nil, bioclock.ErrNonPositiveDayLength
	}

	loc, err := s.geocoder.Geocode(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("geocoding location: %w", err)
	}

	timezone := loc.Timezone
	if timezone == "" {
		// City rows normally carry their zone; fall back to the boundary
		// lookup when this one does not.
		timezone, err = tzlookup.LookupTimezone(database.DBPath(), loc.Latitude, loc.Longitude)
		if err != nil {
			return nil, fmt.Errorf("resolving timezone: %w", err)
		}
	}

	profile := &models.Profile{
		Name:       name,
		Parameters: bioclock.NormalizeParameters(params),
		PlaceName:  loc.Name,
		Coordinate: models.GeoCoordinate{Latitude: loc.Latitude, Longitude: loc.Longitude},
		Timezone:   timezone,
	}

	if err := s.repo.SaveProfile(profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	return profile, nil
}

// CreateProfileAt builds a profile from a raw coordinate, resolving the
// timezone from the boundary database.
func (s *Service) CreateProfileAt(name string, coord models.GeoCoordinate, params models.ClockParameters) (*models.Profile, error) {
	if params.DayLength <= 0 {
		return nil, bioclock.ErrNonPositiveDayLength
	}
	if !coord.Valid() {
		return nil, fmt.Errorf("coordinate out of range: %s", coord)
	}

	timezone, err := tzlookup.LookupTimezone(database.DBPath(), coord.Latitude, coord.Longitude)
	if err != nil {
		return nil, fmt.Errorf("resolving timezone: %w", err)
	}

	profile := &models.Profile{
		Name:       name,
		Parameters: bioclock.NormalizeParameters(params),
		PlaceName:  coord.String(),
		Coordinate: coord,
		Timezone:   timezone,
	}

	if err := s.repo.SaveProfile(profile); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}

	return profile, nil
}

// ReferenceStartForWakeTime converts a user-entered "I woke up today at
// HH:MM" into the reference start of the current biological day: waking
// happens at the wake offset, so the day began wakeOffset before it.
func ReferenceStartForWakeTime(wakeTime time.Time, wakeOffset time.Duration) time.Time {
	return wakeTime.Add(-wakeOffset)
}

// ListProfiles returns all saved profiles.
func (s *Service) ListProfiles() ([]models.Profile, error) {
	return s.repo.ListProfiles()
}

// GetProfile returns a saved profile by name.
func (s *Service) GetProfile(name string) (*models.Profile, error) {
	return s.repo.GetProfile(name)
}

// DeleteProfile removes a saved profile by name.
func (s *Service) DeleteProfile(name string) error {
	return s.repo.DeleteProfile(name)
}
