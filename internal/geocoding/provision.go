package geocoding

import (
	"archive/zip"
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

const (
	// GeoNames dump of every city with population >= 15,000; includes
	// coordinates, country, population and IANA timezone per city.
	citiesZipURL = "https://download.geonames.org/export/dump/cities15000.zip"
	citiesBase   = "cities15000"
)

// NeedsProvisioning reports whether the cities table is missing
func NeedsProvisioning(dbPath string) (bool, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return true, nil
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return false, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='cities'").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking for cities table: %w", err)
	}
	return count == 0, nil
}

// ProvisionCitiesDatabase downloads the GeoNames dump and builds the
// cities table
func ProvisionCitiesDatabase(dbPath string) error {
	needed, err := NeedsProvisioning(dbPath)
	if err != nil {
		return err
	}
	if !needed {
		return nil
	}

	log.Println("Cities table not found, provisioning...")

	// Create data directory if it doesn't exist
	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Download and extract the dump
	zipPath := filepath.Join(dataDir, citiesBase+".zip")
	log.Printf("Downloading GeoNames cities from %s...", citiesZipURL)
	if err := downloadFile(zipPath, citiesZipURL); err != nil {
		return fmt.Errorf("downloading cities dump: %w", err)
	}
	defer os.Remove(zipPath)

	log.Println("Extracting cities dump...")
	if err := unzipFile(zipPath, dataDir); err != nil {
		return fmt.Errorf("extracting cities dump: %w", err)
	}

	txtPath := filepath.Join(dataDir, citiesBase+".txt")
	defer os.Remove(txtPath)

	log.Println("Building cities database...")
	if err := buildCitiesDatabase(txtPath, dbPath); err != nil {
		return fmt.Errorf("building database: %w", err)
	}

	log.Printf("Successfully provisioned cities database at %s", dbPath)
	return nil
}

// downloadFile downloads a file from a URL to a local path
func downloadFile(filepath string, url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	out, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

// unzipFile extracts a zip file to a destination directory
func unzipFile(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		fpath := filepath.Join(dest, f.Name)

		// Check for ZipSlip vulnerability
		if !filepath.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal file path: %s", fpath)
		}

		if f.FileInfo().IsDir() {
			os.MkdirAll(fpath, os.ModePerm)
			continue
		}

		if err = os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return err
		}

		outFile, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			outFile.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()

		if err != nil {
			return err
		}
	}
	return nil
}

// buildCitiesDatabase creates the cities table from the GeoNames
// tab-separated dump. The dump is TSV with no quoting, so a plain split
// per line is the right parser.
func buildCitiesDatabase(txtPath, dbPath string) error {
	file, err := os.Open(txtPath)
	if err != nil {
		return fmt.Errorf("opening cities dump: %w", err)
	}
	defer file.Close()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

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
		);

		CREATE INDEX idx_cities_name ON cities(name COLLATE NOCASE);
		CREATE INDEX idx_cities_ascii_name ON cities(ascii_name COLLATE NOCASE);
		CREATE INDEX idx_cities_timezone ON cities(timezone);
	`)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cities (id, name, ascii_name, country_code, latitude, longitude, population, timezone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) < 18 {
			continue
		}

		// GeoNames columns: 0 id, 1 name, 2 asciiname, 4 lat, 5 lon,
		// 8 country code, 14 population, 17 timezone.
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		lat, errLat := strconv.ParseFloat(fields[4], 64)
		lon, errLon := strconv.ParseFloat(fields[5], 64)
		if errLat != nil || errLon != nil {
			continue
		}
		population, _ := strconv.ParseInt(fields[14], 10, 64)

		if _, err := stmt.Exec(id, fields[1], fields[2], fields[8], lat, lon, population, fields[17]); err != nil {
			log.Printf("Error inserting city %s: %v", fields[1], err)
			continue
		}

		count++
		if count%5000 == 0 {
			log.Printf("Processed %d cities...", count)
		}
	}
	if err := scanner.Err(); err != nil {
		tx.Rollback()
		return fmt.Errorf("reading cities dump: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cities: %w", err)
	}

	log.Printf("Successfully created database with %d cities", count)
	return nil
}
