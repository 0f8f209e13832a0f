package geocoding

import (
	"context"
	"testing"
)

func TestGeocode_RejectsBadQueries(t *testing.T) {
	g := NewGeocoder()
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"too many commas", "a, b, c"},
		{"empty city", ", NO"},
		{"empty country", "Oslo, "},
		{"long country code", "Oslo, NOR"},
		{"numeric country code", "Oslo, 12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Geocode(ctx, tt.query); err == nil {
				t.Errorf("Geocode(%q) expected error, got nil", tt.query)
			}
		})
	}
}

func TestIsCountryCode(t *testing.T) {
	valid := []string{"NO", "US", "JP"}
	for _, s := range valid {
		if !isCountryCode(s) {
			t.Errorf("isCountryCode(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "N", "NOR", "no", "1A"}
	for _, s := range invalid {
		if isCountryCode(s) {
			t.Errorf("isCountryCode(%q) = true, want false", s)
		}
	}
}
