package settings

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/non24/circaterm/internal/database"
	"github.com/non24/circaterm/internal/models"
	_ "modernc.org/sqlite"
)

// Repository handles persistence for user clock profiles. It stores and
// returns parameters exactly as given; normalization is the caller's job.
type Repository struct {
	dbPath string
}

// NewRepository creates a repository over the shared database.
func NewRepository() *Repository {
	return &Repository{dbPath: database.DBPath()}
}

// NewRepositoryAt creates a repository over a specific database file.
func NewRepositoryAt(dbPath string) *Repository {
	return &Repository{dbPath: dbPath}
}

// SaveProfile saves a profile, replacing any existing profile with the
// same name.
func (r *Repository) SaveProfile(profile *models.Profile) error {
	// Ensure schema exists (safe to call multiple times)
	if err := database.EnsureUserSchema(r.dbPath); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	query := `
		INSERT INTO profiles (
			name, day_length_seconds, reference_start, reference_day_index,
			wake_offset_seconds, sleep_duration_seconds,
			place_name, latitude, longitude, timezone, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			day_length_seconds = excluded.day_length_seconds,
			reference_start = excluded.reference_start,
			reference_day_index = excluded.reference_day_index,
			wake_offset_seconds = excluded.wake_offset_seconds,
			sleep_duration_seconds = excluded.sleep_duration_seconds,
			place_name = excluded.place_name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			timezone = excluded.timezone,
			created_at = excluded.created_at
	`

	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	var wake, sleep sql.NullFloat64
	if profile.Parameters.WakeOffset != nil {
		wake = sql.NullFloat64{Float64: profile.Parameters.WakeOffset.Seconds(), Valid: true}
	}
	if profile.Parameters.SleepDuration != nil {
		sleep = sql.NullFloat64{Float64: profile.Parameters.SleepDuration.Seconds(), Valid: true}
	}

	res, err := db.Exec(query,
		profile.Name,
		profile.Parameters.DayLength.Seconds(),
		profile.Parameters.ReferenceStart.UTC(),
		profile.Parameters.ReferenceDayIndex,
		wake,
		sleep,
		profile.PlaceName,
		profile.Coordinate.Latitude,
		profile.Coordinate.Longitude,
		profile.Timezone,
		profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	profile.ID = id

	return nil
}

// ListProfiles retrieves all saved profiles ordered by name.
func (r *Repository) ListProfiles() ([]models.Profile, error) {
	if err := database.EnsureUserSchema(r.dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT id, name, day_length_seconds, reference_start, reference_day_index,
		       wake_offset_seconds, sleep_duration_seconds,
		       place_name, latitude, longitude, timezone, created_at
		FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	return profiles, nil
}

// GetProfile retrieves a single profile by name.
func (r *Repository) GetProfile(name string) (*models.Profile, error) {
	if err := database.EnsureUserSchema(r.dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	row := db.QueryRow(`
		SELECT id, name, day_length_seconds, reference_start, reference_day_index,
		       wake_offset_seconds, sleep_duration_seconds,
		       place_name, latitude, longitude, timezone, created_at
		FROM profiles WHERE name = ?`, name)

	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteProfile removes a profile by name.
func (r *Repository) DeleteProfile(name string) error {
	if err := database.EnsureUserSchema(r.dbPath); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	_, err = db.Exec("DELETE FROM profiles WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var dayLengthSeconds float64
	var wake, sleep sql.NullFloat64
	var placeName, timezone sql.NullString

	err := row.Scan(
		&p.ID, &p.Name, &dayLengthSeconds,
		&p.Parameters.ReferenceStart, &p.Parameters.ReferenceDayIndex,
		&wake, &sleep,
		&placeName, &p.Coordinate.Latitude, &p.Coordinate.Longitude,
		&timezone, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning profile: %w", err)
	}

	p.Parameters.DayLength = time.Duration(dayLengthSeconds * float64(time.Second))
	if wake.Valid {
		d := time.Duration(wake.Float64 * float64(time.Second))
		p.Parameters.WakeOffset = &d
	}
	if sleep.Valid {
		d := time.Duration(sleep.Float64 * float64(time.Second))
		p.Parameters.SleepDuration = &d
	}
	p.PlaceName = placeName.String
	p.Timezone = timezone.String

	return &p, nil
}
