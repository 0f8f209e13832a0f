package settings

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/non24/circaterm/internal/models"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepositoryAt(filepath.Join(t.TempDir(), "test.db"))
}

func sampleProfile(name string) *models.Profile {
	wake := 6 * time.Hour
	sleep := 7*time.Hour + 30*time.Minute
	return &models.Profile{
		Name: name,
		Parameters: models.ClockParameters{
			DayLength:         24*time.Hour + 48*time.Minute,
			ReferenceStart:    time.Date(2025, 3, 1, 1, 30, 0, 0, time.UTC),
			ReferenceDayIndex: 0,
			WakeOffset:        &wake,
			SleepDuration:     &sleep,
		},
		PlaceName:  "Oslo, NO",
		Coordinate: models.GeoCoordinate{Latitude: 59.91, Longitude: 10.75},
		Timezone:   "Europe/Oslo",
	}
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := testRepo(t)

	saved := sampleProfile("home")
	if err := repo.SaveProfile(saved); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if saved.ID == 0 {
		t.Error("SaveProfile() did not set ID")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("SaveProfile() did not set CreatedAt")
	}

	got, err := repo.GetProfile("home")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}

	if got.Parameters.DayLength != saved.Parameters.DayLength {
		t.Errorf("DayLength = %v, want %v", got.Parameters.DayLength, saved.Parameters.DayLength)
	}
	if !got.Parameters.ReferenceStart.Equal(saved.Parameters.ReferenceStart) {
		t.Errorf("ReferenceStart = %v, want %v", got.Parameters.ReferenceStart, saved.Parameters.ReferenceStart)
	}
	if got.Parameters.WakeOffset == nil || *got.Parameters.WakeOffset != 6*time.Hour {
		t.Errorf("WakeOffset = %v, want 6h", got.Parameters.WakeOffset)
	}
	if got.Parameters.SleepDuration == nil || *got.Parameters.SleepDuration != 7*time.Hour+30*time.Minute {
		t.Errorf("SleepDuration = %v, want 7h30m", got.Parameters.SleepDuration)
	}
	if got.Timezone != "Europe/Oslo" {
		t.Errorf("Timezone = %s, want Europe/Oslo", got.Timezone)
	}
	if got.Coordinate.Latitude != 59.91 || got.Coordinate.Longitude != 10.75 {
		t.Errorf("Coordinate = %+v", got.Coordinate)
	}
}

func TestRepository_NilPreferencesRoundTrip(t *testing.T) {
	repo := testRepo(t)

	profile := sampleProfile("bare")
	profile.Parameters.WakeOffset = nil
	profile.Parameters.SleepDuration = nil

	if err := repo.SaveProfile(profile); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	got, err := repo.GetProfile("bare")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.Parameters.WakeOffset != nil {
		t.Errorf("WakeOffset = %v, want nil", got.Parameters.WakeOffset)
	}
	if got.Parameters.SleepDuration != nil {
		t.Errorf("SleepDuration = %v, want nil", got.Parameters.SleepDuration)
	}
}

func TestRepository_UpsertByName(t *testing.T) {
	repo := testRepo(t)

	first := sampleProfile("home")
	if err := repo.SaveProfile(first); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	second := sampleProfile("home")
	second.Parameters.DayLength = 25 * time.Hour
	if err := repo.SaveProfile(second); err != nil {
		t.Fatalf("SaveProfile() upsert error = %v", err)
	}

	profiles, err := repo.ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("got %d profiles after upsert, want 1", len(profiles))
	}
	if profiles[0].Parameters.DayLength != 25*time.Hour {
		t.Errorf("DayLength = %v, want 25h", profiles[0].Parameters.DayLength)
	}
}

func TestRepository_ListOrdersByName(t *testing.T) {
	repo := testRepo(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := repo.SaveProfile(sampleProfile(name)); err != nil {
			t.Fatalf("SaveProfile(%s) error = %v", name, err)
		}
	}

	profiles, err := repo.ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("got %d profiles, want 3", len(profiles))
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, name := range want {
		if profiles[i].Name != name {
			t.Errorf("profiles[%d].Name = %s, want %s", i, profiles[i].Name, name)
		}
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := testRepo(t)

	if err := repo.SaveProfile(sampleProfile("gone")); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if err := repo.DeleteProfile("gone"); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}
	if _, err := repo.GetProfile("gone"); err == nil {
		t.Error("GetProfile() after delete expected error, got nil")
	}
}

func TestReferenceStartForWakeTime(t *testing.T) {
	wake := time.Date(2025, 3, 1, 7, 30, 0, 0, time.UTC)
	got := ReferenceStartForWakeTime(wake, 6*time.Hour)
	want := time.Date(2025, 3, 1, 1, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ReferenceStartForWakeTime() = %v, want %v", got, want)
	}
}
