package tzlookup

import (
	"database/sql"
	"math"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE timezones (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tzid TEXT NOT NULL,
			bbox_min_lat REAL NOT NULL,
			bbox_max_lat REAL NOT NULL,
			bbox_min_lon REAL NOT NULL,
			bbox_max_lon REAL NOT NULL,
			center_lat REAL NOT NULL,
			center_lon REAL NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	// Rough boxes: the Netherlands, the UK, and US Eastern.
	_, err = db.Exec(`
		INSERT INTO timezones (tzid, bbox_min_lat, bbox_max_lat, bbox_min_lon, bbox_max_lon, center_lat, center_lon) VALUES
		('Europe/Amsterdam', 50.7, 53.6, 3.3, 7.2, 52.2, 5.3),
		('Europe/London', 49.9, 60.9, -8.6, 1.8, 54.0, -2.5),
		('America/New_York', 24.5, 49.0, -90.0, -66.9, 40.0, -75.0)
	`)
	if err != nil {
		t.Fatalf("Failed to insert test data: %v", err)
	}

	return db
}

func TestLookupTimezoneInDB(t *testing.T) {
	db := openTestDB(t)

	tests := []struct {
		name string
		lat  float64
		lon  float64
		want string
	}{
		{"Amsterdam", 52.3676, 4.9041, "Europe/Amsterdam"},
		{"London", 51.5074, -0.1278, "Europe/London"},
		{"New York", 40.7128, -74.0060, "America/New_York"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lookupTimezoneInDB(db, tt.lat, tt.lon)
			if err != nil {
				t.Fatalf("lookupTimezoneInDB() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("lookupTimezoneInDB() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLookupTimezoneInDB_FallsBackToNearest(t *testing.T) {
	db := openTestDB(t)

	// Mid-Atlantic: no bounding box contains it, nearest centroid wins.
	got, err := lookupTimezoneInDB(db, 45.0, -30.0)
	if err != nil {
		t.Fatalf("lookupTimezoneInDB() error = %v", err)
	}
	if got != "Europe/London" {
		t.Errorf("lookupTimezoneInDB() = %s, want Europe/London (nearest centroid)", got)
	}
}

func TestContainingZonesFromDB_RankedByDistance(t *testing.T) {
	db := openTestDB(t)

	// Rotterdam sits in both the Amsterdam and (wide) London boxes only
	// if boxes overlapped; with these boxes only Amsterdam contains it.
	zones, err := containingZonesFromDB(db, 51.92, 4.48)
	if err != nil {
		t.Fatalf("containingZonesFromDB() error = %v", err)
	}
	if len(zones) != 1 || zones[0].TzID != "Europe/Amsterdam" {
		t.Errorf("got %v, want [Europe/Amsterdam]", zones)
	}
}

func TestHaversineDistance(t *testing.T) {
	// Boston to New York is roughly 190 miles.
	d := HaversineDistance(42.36, -71.06, 40.71, -74.01)
	if math.Abs(d-190) > 15 {
		t.Errorf("HaversineDistance(BOS, NYC) = %.1f, want ~190 miles", d)
	}

	if d := HaversineDistance(52.0, 5.0, 52.0, 5.0); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
}
