package bioclock

import (
	"testing"
	"time"

	"github.com/non24/circaterm/internal/models"
)

func durationPtr(d time.Duration) *time.Duration { return &d }

func TestNormalizeSleepDuration(t *testing.T) {
	tests := []struct {
		name  string
		input *time.Duration
		want  time.Duration
	}{
		{"nil uses default", nil, 7*time.Hour + 30*time.Minute},
		{"already aligned", durationPtr(8 * time.Hour), 8 * time.Hour},
		{"snaps down to 5 minutes", durationPtr(8*time.Hour + 7*time.Minute), 8*time.Hour + 5*time.Minute},
		{"snaps sub-minute residue", durationPtr(7*time.Hour + 4*time.Minute + 59*time.Second), 7 * time.Hour},
		{"clamps short", durationPtr(time.Hour), 3 * time.Hour},
		{"clamps long", durationPtr(20 * time.Hour), 14 * time.Hour},
		{"clamps negative", durationPtr(-time.Hour), 3 * time.Hour},
		{"lower bound exact", durationPtr(3 * time.Hour), 3 * time.Hour},
		{"upper bound exact", durationPtr(14 * time.Hour), 14 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSleepDuration(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeSleepDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeSleepDuration_Idempotent(t *testing.T) {
	inputs := []time.Duration{
		-time.Hour,
		0,
		time.Hour,
		7*time.Hour + 33*time.Minute,
		8 * time.Hour,
		13*time.Hour + 59*time.Minute,
		25 * time.Hour,
	}

	for _, d := range inputs {
		once := NormalizeSleepDuration(&d)
		twice := NormalizeSleepDuration(&once)
		if once != twice {
			t.Errorf("normalize(%v): once = %v, twice = %v", d, once, twice)
		}
	}

	// Nil path must also be a fixed point.
	once := NormalizeSleepDuration(nil)
	twice := NormalizeSleepDuration(&once)
	if once != twice {
		t.Errorf("nil path: once = %v, twice = %v", once, twice)
	}
}

func TestNormalizeWakeOffset(t *testing.T) {
	if got := NormalizeWakeOffset(nil); got != 6*time.Hour {
		t.Errorf("NormalizeWakeOffset(nil) = %v, want 6h", got)
	}
	if got := NormalizeWakeOffset(durationPtr(9 * time.Hour)); got != 9*time.Hour {
		t.Errorf("NormalizeWakeOffset(9h) = %v, want 9h", got)
	}
}

func TestNormalizeParameters(t *testing.T) {
	params := models.ClockParameters{
		DayLength:      25 * time.Hour,
		ReferenceStart: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		SleepDuration:  durationPtr(8*time.Hour + 2*time.Minute),
	}

	normalized := NormalizeParameters(params)

	if normalized.SleepDuration == nil || *normalized.SleepDuration != 8*time.Hour {
		t.Errorf("SleepDuration = %v, want 8h", normalized.SleepDuration)
	}
	if normalized.WakeOffset == nil || *normalized.WakeOffset != 6*time.Hour {
		t.Errorf("WakeOffset = %v, want default 6h", normalized.WakeOffset)
	}

	// Input must not be mutated.
	if *params.SleepDuration != 8*time.Hour+2*time.Minute {
		t.Errorf("input SleepDuration mutated to %v", *params.SleepDuration)
	}
	if params.WakeOffset != nil {
		t.Error("input WakeOffset mutated")
	}

	again := NormalizeParameters(normalized)
	if *again.SleepDuration != *normalized.SleepDuration || *again.WakeOffset != *normalized.WakeOffset {
		t.Error("NormalizeParameters is not idempotent")
	}
}
