// Package timeutil normalises heterogeneous timestamp strings onto a single
// epoch-millisecond axis and rounds them to bucket granularities.
package timeutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the canonical output form. Every timestamp leaving the engine
// carries milliseconds and a trailing Z.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// ErrMalformedTimestamp is returned when text is not a recognisable date/time.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Timestamp is a UTC instant with millisecond precision, stored as signed
// milliseconds since the Unix epoch.
type Timestamp int64

// zonedLayouts carry their own offset; the parsed instant is converted to UTC.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
}

// localLayouts carry no zone and are read as UTC.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// Parse reads text in any of the supported ISO-ish layouts. Digits beyond
// the millisecond are truncated.
func Parse(text string) (Timestamp, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrMalformedTimestamp)
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return FromTime(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
}

// MustParse is Parse for fixtures and constants; it panics on bad input.
func MustParse(text string) Timestamp {
	ts, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return ts
}

// FromTime truncates t to the millisecond.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// FromEpochMillis wraps a raw epoch-millisecond value.
func FromEpochMillis(ms int64) Timestamp {
	return Timestamp(ms)
}

// EpochMillis returns the signed milliseconds since the Unix epoch.
func (ts Timestamp) EpochMillis() int64 {
	return int64(ts)
}

// Time returns the instant in UTC.
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts)).UTC()
}

// ISO formats the timestamp as 2006-01-02T15:04:05.000Z.
func (ts Timestamp) ISO() string {
	return ts.Time().Format(ISOLayout)
}

// String implements fmt.Stringer.
func (ts Timestamp) String() string {
	return ts.ISO()
}

// MarshalJSON encodes the canonical ISO string.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.ISO())
}

// UnmarshalJSON accepts any string Parse accepts.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedTimestamp, data)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// Normalize re-emits text in canonical ISO form.
func Normalize(text string) (string, error) {
	ts, err := Parse(text)
	if err != nil {
		return "", err
	}
	return ts.ISO(), nil
}

// RoundTo rounds one calendar field of the UTC time and zeroes everything
// finer. Minute granularities round the minute field to the nearest multiple
// (seconds are discarded first), hour granularities round the hour field the
// same way (minutes discarded), and 1day moves to the next midnight from
// 12:00 onwards. Exact halves round up; overflow carries into the next hour
// or day.
func (ts Timestamp) RoundTo(g Granularity) Timestamp {
	t := ts.Time()
	y, mo, d := t.Date()
	h, mi := t.Hour(), t.Minute()

	switch g {
	case OneMinute, TenMinutes, ThirtyMinutes:
		step := int(g.Duration() / time.Minute)
		return FromTime(time.Date(y, mo, d, h, roundHalfUp(mi, step), 0, 0, time.UTC))
	case OneHour, SixHours:
		step := int(g.Duration() / time.Hour)
		return FromTime(time.Date(y, mo, d, roundHalfUp(h, step), 0, 0, 0, time.UTC))
	case OneDay:
		if h >= 12 {
			d++
		}
		return FromTime(time.Date(y, mo, d, 0, 0, 0, 0, time.UTC))
	default:
		return ts
	}
}

// roundHalfUp rounds a non-negative field value to the nearest multiple of step.
func roundHalfUp(v, step int) int {
	return (2*v + step) / (2 * step) * step
}
