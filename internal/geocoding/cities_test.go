package geocoding

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestCitiesDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE cities (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			ascii_name TEXT NOT NULL,
			country_code TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			population INTEGER NOT NULL,
			timezone TEXT NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO cities (id, name, ascii_name, country_code, latitude, longitude, population, timezone) VALUES
		(1, 'Portland', 'Portland', 'US', 45.52, -122.68, 650000, 'America/Los_Angeles'),
		(2, 'Portland', 'Portland', 'US', 43.66, -70.25, 66000, 'America/New_York'),
		(3, 'Oslo', 'Oslo', 'NO', 59.91, 10.75, 700000, 'Europe/Oslo'),
		(4, 'Tromsø', 'Tromso', 'NO', 69.65, 18.96, 65000, 'Europe/Oslo')
	`)
	if err != nil {
		t.Fatalf("Failed to insert test data: %v", err)
	}

	return db
}

func TestMostPopulousCityInZonesInDB(t *testing.T) {
	db := openTestCitiesDB(t)

	tests := []struct {
		name        string
		zones       []string
		wantName    string
		wantTZ      string
		expectError bool
	}{
		{"single zone", []string{"Europe/Oslo"}, "Oslo, NO", "Europe/Oslo", false},
		{"population wins across zones", []string{"America/New_York", "America/Los_Angeles"}, "Portland, US", "America/Los_Angeles", false},
		{"smaller zone alone", []string{"America/New_York"}, "Portland, US", "America/New_York", false},
		{"unknown zone", []string{"Pacific/Nowhere"}, "", "", true},
		{"no zones", nil, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := mostPopulousCityInZonesInDB(db, tt.zones)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got %+v", loc)
				}
				return
			}
			if err != nil {
				t.Fatalf("mostPopulousCityInZonesInDB() error = %v", err)
			}
			if loc.Name != tt.wantName {
				t.Errorf("name = %s, want %s", loc.Name, tt.wantName)
			}
			if loc.Timezone != tt.wantTZ {
				t.Errorf("timezone = %s, want %s", loc.Timezone, tt.wantTZ)
			}
		})
	}
}

func TestDistinctTimezonesInDB(t *testing.T) {
	db := openTestCitiesDB(t)

	zones, err := distinctTimezonesInDB(db)
	if err != nil {
		t.Fatalf("distinctTimezonesInDB() error = %v", err)
	}

	want := []string{"America/Los_Angeles", "America/New_York", "Europe/Oslo"}
	if len(zones) != len(want) {
		t.Fatalf("got %d zones %v, want %d", len(zones), zones, len(want))
	}
	for i, zone := range want {
		if zones[i] != zone {
			t.Errorf("zones[%d] = %s, want %s", i, zones[i], zone)
		}
	}
}

func TestDistinctTimezonesInDB_SkipsEmpty(t *testing.T) {
	db := openTestCitiesDB(t)

	_, err := db.Exec(`
		INSERT INTO cities (id, name, ascii_name, country_code, latitude, longitude, population, timezone)
		VALUES (5, 'Null Island', 'Null Island', 'XX', 0, 0, 0, '')`)
	if err != nil {
		t.Fatalf("Failed to insert test data: %v", err)
	}

	zones, err := distinctTimezonesInDB(db)
	if err != nil {
		t.Fatalf("distinctTimezonesInDB() error = %v", err)
	}
	for _, zone := range zones {
		if zone == "" {
			t.Error("empty timezone should be excluded")
		}
	}
}

func TestLookupCityInDB(t *testing.T) {
	db := openTestCitiesDB(t)

	tests := []struct {
		name        string
		city        string
		country     string
		wantLat     float64
		wantTZ      string
		expectError bool
	}{
		{"unique city", "Oslo", "", 59.91, "Europe/Oslo", false},
		{"case insensitive", "oslo", "", 59.91, "Europe/Oslo", false},
		{"ascii fallback for accented name", "Tromso", "NO", 69.65, "Europe/Oslo", false},
		{"ambiguous picks most populous", "Portland", "", 45.52, "America/Los_Angeles", false},
		{"country filter applies", "Portland", "US", 45.52, "America/Los_Angeles", false},
		{"unknown city", "Atlantis", "", 0, "", true},
		{"wrong country", "Oslo", "US", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := lookupCityInDB(db, tt.city, tt.country)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got %+v", loc)
				}
				return
			}
			if err != nil {
				t.Fatalf("lookupCityInDB() error = %v", err)
			}
			if loc.Latitude != tt.wantLat {
				t.Errorf("latitude = %v, want %v", loc.Latitude, tt.wantLat)
			}
			if loc.Timezone != tt.wantTZ {
				t.Errorf("timezone = %s, want %s", loc.Timezone, tt.wantTZ)
			}
		})
	}
}
