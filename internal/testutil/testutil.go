// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"
	"time"

	"github.com/banshee-data/series.align/internal/series"
	"github.com/banshee-data/series.align/internal/timeutil"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// Ts parses an ISO-ish timestamp or panics.
func Ts(iso string) timeutil.Timestamp {
	return timeutil.MustParse(iso)
}

// Pt builds a point. NaN becomes a missing value.
func Pt(iso string, v float64) series.Point {
	return series.Point{Time: Ts(iso), Value: series.Some(v)}
}

// NullPt builds a point with a missing value.
func NullPt(iso string) series.Point {
	return series.Point{Time: Ts(iso), Value: series.Null}
}

// Every builds evenly spaced points from start. NaN entries are missing.
func Every(start string, step time.Duration, values ...float64) []series.Point {
	t0 := Ts(start)
	out := make([]series.Point, len(values))
	for i, v := range values {
		out[i] = series.Point{
			Time:  t0 + timeutil.Timestamp(int64(i)*step.Milliseconds()),
			Value: series.Some(v),
		}
	}
	return out
}

// Hourly is Every with a one hour step.
func Hourly(start string, values ...float64) []series.Point {
	return Every(start, time.Hour, values...)
}

// Missing is a readable NaN for Every and Hourly.
var Missing = math.NaN()

// Series builds a series with a stable ID derived from its labels, so
// provenance in tests is predictable.
func Series(display, source string, points ...series.Point) series.Series {
	return series.Series{
		ID:     display + "@" + source,
		Ref:    series.ParameterRef{DisplayName: display, SourceLabel: source, SourceID: source},
		Points: append([]series.Point(nil), points...),
	}
}
