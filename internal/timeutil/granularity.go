package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is a bucket width accepted by RoundTo.
type Granularity string

// Granularity constants
const (
	OneMinute     Granularity = "1min"
	TenMinutes    Granularity = "10min"
	ThirtyMinutes Granularity = "30min"
	OneHour       Granularity = "1hr"
	SixHours      Granularity = "6hr"
	OneDay        Granularity = "1day"
)

// ValidGranularities lists every supported granularity, finest first.
var ValidGranularities = []Granularity{OneMinute, TenMinutes, ThirtyMinutes, OneHour, SixHours, OneDay}

// IsValid reports whether g is one of ValidGranularities.
func (g Granularity) IsValid() bool {
	for _, v := range ValidGranularities {
		if g == v {
			return true
		}
	}
	return false
}

// Duration returns the bucket width, or zero for an unknown granularity.
func (g Granularity) Duration() time.Duration {
	switch g {
	case OneMinute:
		return time.Minute
	case TenMinutes:
		return 10 * time.Minute
	case ThirtyMinutes:
		return 30 * time.Minute
	case OneHour:
		return time.Hour
	case SixHours:
		return 6 * time.Hour
	case OneDay:
		return 24 * time.Hour
	default:
		return 0
	}
}

// Millis returns the bucket width in milliseconds.
func (g Granularity) Millis() int64 {
	return g.Duration().Milliseconds()
}

// GetValidGranularitiesString returns a comma-separated list for error messages.
func GetValidGranularitiesString() string {
	names := make([]string, len(ValidGranularities))
	for i, g := range ValidGranularities {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

// ParseGranularity accepts the canonical names case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if !g.IsValid() {
		return "", fmt.Errorf("invalid granularity %q (valid: %s)", s, GetValidGranularitiesString())
	}
	return g, nil
}
