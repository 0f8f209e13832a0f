package tzlookup

import (
	"archive/zip"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jonas-p/go-shp"
	_ "modernc.org/sqlite"
)

const (
	// Timezone boundary shapefile built from OpenStreetMap data
	// (timezone-boundary-builder releases, updated with each tzdb cut)
	timezonesURL  = "https://github.com/evansiroky/timezone-boundary-builder/releases/download/2025a/timezones.shapefile.zip"
	shapefileBase = "combined-shapefile"
)

// NeedsProvisioning reports whether the timezones table is missing
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
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='timezones'").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking for timezones table: %w", err)
	}
	return count == 0, nil
}

// ProvisionDatabase checks if the timezones table exists and creates it if not
func ProvisionDatabase(dbPath string) error {
	needed, err := NeedsProvisioning(dbPath)
	if err != nil {
		return err
	}
	if !needed {
		return nil
	}

	log.Println("Timezones table not found, provisioning...")

	// Create data directory if it doesn't exist
	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Download shapefile
	zipPath := filepath.Join(dataDir, "timezones.shapefile.zip")
	log.Printf("Downloading timezone boundaries from %s...", timezonesURL)
	if err := downloadFile(zipPath, timezonesURL); err != nil {
		return fmt.Errorf("downloading shapefile: %w", err)
	}
	defer os.Remove(zipPath)

	// Extract shapefile
	log.Println("Extracting shapefile...")
	if err := unzipFile(zipPath, dataDir); err != nil {
		return fmt.Errorf("extracting shapefile: %w", err)
	}

	// Build database
	shapefilePath := filepath.Join(dataDir, shapefileBase+".shp")
	log.Println("Building timezones database...")
	if err := buildDatabase(shapefilePath, dbPath); err != nil {
		return fmt.Errorf("building database: %w", err)
	}

	// Clean up shapefile files (keep only the database)
	cleanupShapefiles(dataDir, shapefileBase)

	log.Printf("Successfully provisioned timezones database at %s", dbPath)
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

// buildDatabase creates the timezones table from the boundary shapefile.
// Only the tzid, bounding box and centroid are kept; the lookup works on
// those rather than full polygon containment.
func buildDatabase(shapefilePath, dbPath string) error {
	shape, err := shp.Open(shapefilePath)
	if err != nil {
		return fmt.Errorf("opening shapefile: %w", err)
	}
	defer shape.Close()

	// Open SQLite database (don't remove - may contain other tables)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

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
		);

		CREATE INDEX idx_timezones_bbox ON timezones(
			bbox_min_lat, bbox_max_lat, bbox_min_lon, bbox_max_lon
		);

		CREATE INDEX idx_timezones_tzid ON timezones(tzid);
	`)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	count := 0
	for shape.Next() {
		n, p := shape.Shape()

		// Field 0: tzid (the only attribute in the boundary shapefile)
		tzid := shape.ReadAttribute(n, 0)
		if tzid == "" {
			continue
		}

		polygon, ok := p.(*shp.Polygon)
		if !ok {
			continue
		}

		bbox := polygon.BBox()

		// Centroid of the largest part (likely the outer boundary); good
		// enough for ranking candidates whose bounding boxes overlap.
		centerLat, centerLon := largestPartCentroid(polygon)

		_, err = db.Exec(`
			INSERT INTO timezones (
				tzid,
				bbox_min_lat, bbox_max_lat, bbox_min_lon, bbox_max_lon,
				center_lat, center_lon
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`, tzid,
			bbox.MinY, bbox.MaxY, bbox.MinX, bbox.MaxX,
			centerLat, centerLon)

		if err != nil {
			log.Printf("Error inserting zone %s: %v", tzid, err)
			continue
		}

		count++
		if count%100 == 0 {
			log.Printf("Processed %d zones...", count)
		}
	}

	log.Printf("Successfully created database with %d timezone regions", count)
	return nil
}

// largestPartCentroid averages the points of the polygon's largest part
func largestPartCentroid(polygon *shp.Polygon) (lat, lon float64) {
	if len(polygon.Parts) == 0 {
		var sumLat, sumLon float64
		for _, pt := range polygon.Points {
			sumLat += pt.Y
			sumLon += pt.X
		}
		if n := float64(len(polygon.Points)); n > 0 {
			return sumLat / n, sumLon / n
		}
		return 0, 0
	}

	largestPartIdx := 0
	largestPartSize := 0

	for partIdx := 0; partIdx < len(polygon.Parts); partIdx++ {
		startIdx := int(polygon.Parts[partIdx])
		endIdx := len(polygon.Points)
		if partIdx+1 < len(polygon.Parts) {
			endIdx = int(polygon.Parts[partIdx+1])
		}
		partSize := endIdx - startIdx
		if partSize > largestPartSize {
			largestPartSize = partSize
			largestPartIdx = partIdx
		}
	}

	startIdx := int(polygon.Parts[largestPartIdx])
	endIdx := len(polygon.Points)
	if largestPartIdx+1 < len(polygon.Parts) {
		endIdx = int(polygon.Parts[largestPartIdx+1])
	}

	var sumLat, sumLon float64
	for i := startIdx; i < endIdx; i++ {
		sumLat += polygon.Points[i].Y
		sumLon += polygon.Points[i].X
	}
	n := float64(endIdx - startIdx)
	if n == 0 {
		return 0, 0
	}
	return sumLat / n, sumLon / n
}

// cleanupShapefiles removes the extracted shapefile components
func cleanupShapefiles(dir, base string) {
	extensions := []string{".shp", ".shx", ".dbf", ".prj", ".cpg", ".shp.xml"}
	for _, ext := range extensions {
		path := filepath.Join(dir, base+ext)
		os.Remove(path) // Ignore errors
	}
}
