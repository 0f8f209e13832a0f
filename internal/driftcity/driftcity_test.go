package driftcity

import (
	"testing"
	"time"
)

func TestDriftAt(t *testing.T) {
	// 14:00 UTC wall clock.
	now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		bioOffset time.Duration
		want      time.Duration
	}{
		{"in sync", 14 * time.Hour, 0},
		{"three hours ahead", 17 * time.Hour, 3 * time.Hour},
		{"two hours behind", 12 * time.Hour, -2 * time.Hour},
		{"half-cycle folds to ahead", 2 * time.Hour, 12 * time.Hour},
		{"large lead folds to lag", 4 * time.Hour, -10 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DriftAt(tt.bioOffset, now, time.UTC)
			if got != tt.want {
				t.Errorf("DriftAt(%v) = %v, want %v", tt.bioOffset, got, tt.want)
			}
		})
	}
}

func TestDriftAt_UsesLocalZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// 14:00 UTC is 09:00 EST; a 14h biological offset is then 5h ahead.
	now := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	got := DriftAt(14*time.Hour, now, loc)
	if got != 5*time.Hour {
		t.Errorf("DriftAt() = %v, want 5h", got)
	}
}
