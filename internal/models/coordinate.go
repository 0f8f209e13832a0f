package models

import "fmt"

// GeoCoordinate is a point on the Earth's surface in decimal degrees.
type GeoCoordinate struct {
	Latitude  float64 // positive north
	Longitude float64 // positive east
}

// Valid reports whether the coordinate lies within the usual lat/lon bounds.
func (c GeoCoordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// String formats the coordinate for display, e.g. "52.3676N, 4.9041E".
func (c GeoCoordinate) String() string {
	latDir := "N"
	lat := c.Latitude
	if lat < 0 {
		latDir = "S"
		lat = -lat
	}
	lonDir := "E"
	lon := c.Longitude
	if lon < 0 {
		lonDir = "W"
		lon = -lon
	}
	return fmt.Sprintf("%.4f%s, %.4f%s", lat, latDir, lon, lonDir)
}
