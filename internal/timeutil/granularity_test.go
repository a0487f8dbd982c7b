package timeutil

import (
	"testing"
	"time"
)

func TestGranularityIsValid(t *testing.T) {
	tests := []struct {
		name     string
		g        Granularity
		expected bool
	}{
		{"1min", OneMinute, true},
		{"10min", TenMinutes, true},
		{"30min", ThirtyMinutes, true},
		{"1hr", OneHour, true},
		{"6hr", SixHours, true},
		{"1day", OneDay, true},
		{"empty", "", false},
		{"unknown", "2hr", false},
		{"uppercase", "1HR", false}, // Case-sensitive; ParseGranularity folds case
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.IsValid(); got != tt.expected {
				t.Errorf("IsValid(%q) = %v, want %v", tt.g, got, tt.expected)
			}
		})
	}
}

func TestGranularityDuration(t *testing.T) {
	if got := OneDay.Duration(); got != 24*time.Hour {
		t.Errorf("OneDay.Duration() = %v, want 24h", got)
	}
	if got := TenMinutes.Millis(); got != 600_000 {
		t.Errorf("TenMinutes.Millis() = %d, want 600000", got)
	}
	if got := Granularity("bogus").Duration(); got != 0 {
		t.Errorf("unknown granularity duration = %v, want 0", got)
	}
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity(" 1HR ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g != OneHour {
		t.Errorf("ParseGranularity = %q, want %q", g, OneHour)
	}

	if _, err := ParseGranularity("hourly"); err == nil {
		t.Error("expected error for unknown granularity")
	}
}

func TestGetValidGranularitiesString(t *testing.T) {
	expected := "1min, 10min, 30min, 1hr, 6hr, 1day"
	if got := GetValidGranularitiesString(); got != expected {
		t.Errorf("GetValidGranularitiesString() = %s, want %s", got, expected)
	}
}
