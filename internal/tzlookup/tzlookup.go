// Package tzlookup resolves coordinates to IANA timezone names using a
// SQLite table built from the timezone-boundary shapefile.
package tzlookup

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"sync"

	_ "modernc.org/sqlite"
)

var (
	db      *sql.DB
	once    sync.Once
	initErr error
)

// ZoneInfo represents a timezone region with its distance from a point
type ZoneInfo struct {
	TzID     string  // IANA name, e.g. "Europe/Amsterdam"
	Distance float64 // centroid distance in miles
}

// GetDB returns the singleton database connection
// Automatically provisions the database if it doesn't exist
func GetDB(dbPath string) (*sql.DB, error) {
	once.Do(func() {
		initErr = ProvisionDatabase(dbPath)
		if initErr != nil {
			return
		}

		db, initErr = sql.Open("sqlite", dbPath)
		if initErr != nil {
			return
		}
		// Set pragmas for performance
		db.Exec("PRAGMA journal_mode=WAL")
		db.Exec("PRAGMA synchronous=NORMAL")
		db.Exec("PRAGMA cache_size=10000")
	})
	return db, initErr
}

// HaversineDistance calculates distance in miles between two lat/lon points
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusMiles = 3959.0

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// LookupTimezone finds the IANA zone for a coordinate. Zones whose
// bounding box contains the point are ranked by centroid distance; if no
// bounding box matches (open ocean), the nearest centroid wins.
func LookupTimezone(dbPath string, lat, lon float64) (string, error) {
	db, err := GetDB(dbPath)
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}
	return lookupTimezoneInDB(db, lat, lon)
}

func lookupTimezoneInDB(db *sql.DB, lat, lon float64) (string, error) {
	zones, err := containingZonesFromDB(db, lat, lon)
	if err != nil {
		return "", err
	}
	if len(zones) > 0 {
		return zones[0].TzID, nil
	}

	nearest, err := nearestZoneFromDB(db, lat, lon)
	if err != nil {
		return "", err
	}
	return nearest.TzID, nil
}

// containingZonesFromDB finds zones whose bounding box contains the point,
// closest centroid first
func containingZonesFromDB(db *sql.DB, lat, lon float64) ([]ZoneInfo, error) {
	rows, err := db.Query(`
		SELECT tzid, center_lat, center_lon
		FROM timezones
		WHERE bbox_min_lat <= ? AND bbox_max_lat >= ?
		  AND bbox_min_lon <= ? AND bbox_max_lon >= ?
	`, lat, lat, lon, lon)
	if err != nil {
		return nil, fmt.Errorf("querying timezones: %w", err)
	}
	defer rows.Close()

	var zones []ZoneInfo
	for rows.Next() {
		var tzid string
		var centerLat, centerLon float64

		if err := rows.Scan(&tzid, &centerLat, &centerLon); err != nil {
			continue
		}

		zones = append(zones, ZoneInfo{
			TzID:     tzid,
			Distance: HaversineDistance(lat, lon, centerLat, centerLon),
		})
	}

	// Sort by centroid distance (closest first)
	sort.Slice(zones, func(i, j int) bool {
		return zones[i].Distance < zones[j].Distance
	})

	return zones, nil
}

// nearestZoneFromDB finds the zone with the closest centroid, regardless
// of bounding boxes
func nearestZoneFromDB(db *sql.DB, lat, lon float64) (*ZoneInfo, error) {
	rows, err := db.Query("SELECT tzid, center_lat, center_lon FROM timezones")
	if err != nil {
		return nil, fmt.Errorf("querying timezones: %w", err)
	}
	defer rows.Close()

	var best *ZoneInfo
	for rows.Next() {
		var tzid string
		var centerLat, centerLon float64

		if err := rows.Scan(&tzid, &centerLat, &centerLon); err != nil {
			continue
		}

		distance := HaversineDistance(lat, lon, centerLat, centerLon)
		if best == nil || distance < best.Distance {
			best = &ZoneInfo{TzID: tzid, Distance: distance}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("no timezone found near %.4f, %.4f", lat, lon)
	}
	return best, nil
}
