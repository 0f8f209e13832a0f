package geocoding

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/non24/circaterm/internal/database"
	_ "modernc.org/sqlite"
)

var (
	cityDB     *sql.DB
	cityDBOnce sync.Once
	initErr    error
)

// getCityDB returns the singleton database connection
func getCityDB(dbPath string) (*sql.DB, error) {
	cityDBOnce.Do(func() {
		// Provision database if it doesn't exist
		initErr = ProvisionCitiesDatabase(dbPath)
		if initErr != nil {
			return
		}

		cityDB, initErr = sql.Open("sqlite", dbPath)
		if initErr != nil {
			return
		}

		// Set pragmas for performance
		_, initErr = cityDB.Exec(`
			PRAGMA journal_mode=WAL;
			PRAGMA synchronous=NORMAL;
			PRAGMA cache_size=10000;
		`)
	})
	return cityDB, initErr
}

// lookupCity finds a city by name, optionally restricted to a country.
// Ties resolve to the most populous match.
func lookupCity(city, countryCode string) (*Location, error) {
	db, err := getCityDB(database.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening cities database: %w", err)
	}
	return lookupCityInDB(db, city, countryCode)
}

// lookupCityInDB finds a city using the provided database connection
func lookupCityInDB(db *sql.DB, city, countryCode string) (*Location, error) {
	query := `
		SELECT name, country_code, latitude, longitude, timezone
		FROM cities
		WHERE (name = ? COLLATE NOCASE OR ascii_name = ? COLLATE NOCASE)`
	args := []any{city, city}
	if countryCode != "" {
		query += " AND country_code = ?"
		args = append(args, countryCode)
	}
	query += " ORDER BY population DESC LIMIT 1"

	var name, country, timezone string
	var lat, lon float64

	err := db.QueryRow(query, args...).Scan(&name, &country, &lat, &lon, &timezone)
	if err == sql.ErrNoRows {
		if countryCode != "" {
			return nil, fmt.Errorf("no place found for %s, %s", city, countryCode)
		}
		return nil, fmt.Errorf("no place found for %s", city)
	}
	if err != nil {
		return nil, fmt.Errorf("querying city: %w", err)
	}

	return &Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      fmt.Sprintf("%s, %s", name, country),
		Timezone:  timezone,
	}, nil
}

// MostPopulousCityInZones returns the largest city across any of the
// given IANA zones, used by the drift-city mapper to put a familiar name
// on a timezone.
func MostPopulousCityInZones(dbPath string, timezones []string) (*Location, error) {
	db, err := getCityDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cities database: %w", err)
	}
	return mostPopulousCityInZonesInDB(db, timezones)
}

// mostPopulousCityInZonesInDB finds the largest city using the provided
// database connection
func mostPopulousCityInZonesInDB(db *sql.DB, timezones []string) (*Location, error) {
	if len(timezones) == 0 {
		return nil, fmt.Errorf("no timezones given")
	}

	placeholders := strings.Repeat("?,", len(timezones)-1) + "?"
	args := make([]any, len(timezones))
	for i, zone := range timezones {
		args[i] = zone
	}

	var name, country, timezone string
	var lat, lon float64

	err := db.QueryRow(`
		SELECT name, country_code, latitude, longitude, timezone
		FROM cities WHERE timezone IN (`+placeholders+`)
		ORDER BY population DESC LIMIT 1`, args...).Scan(&name, &country, &lat, &lon, &timezone)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no city found in any candidate zone")
	}
	if err != nil {
		return nil, fmt.Errorf("querying zone cities: %w", err)
	}

	return &Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      fmt.Sprintf("%s, %s", name, country),
		Timezone:  timezone,
	}, nil
}

// DistinctTimezones lists every IANA zone present in the cities table.
func DistinctTimezones(dbPath string) ([]string, error) {
	db, err := getCityDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cities database: %w", err)
	}
	return distinctTimezonesInDB(db)
}

// distinctTimezonesInDB lists the zones using the provided database
// connection
func distinctTimezonesInDB(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT DISTINCT timezone FROM cities WHERE timezone != '' ORDER BY timezone")
	if err != nil {
		return nil, fmt.Errorf("querying timezones: %w", err)
	}
	defer rows.Close()

	var zones []string
	for rows.Next() {
		var zone string
		if err := rows.Scan(&zone); err != nil {
			continue
		}
		zones = append(zones, zone)
	}
	return zones, nil
}
