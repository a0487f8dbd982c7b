package timeutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"canonical", "2024-01-01T00:00:00.000Z", "2024-01-01T00:00:00.000Z"},
		{"no millis", "2024-01-01T06:30:00Z", "2024-01-01T06:30:00.000Z"},
		{"offset", "2024-01-01T02:00:00+02:00", "2024-01-01T00:00:00.000Z"},
		{"negative offset", "2023-12-31T19:00:00-05:00", "2024-01-01T00:00:00.000Z"},
		{"nanos truncated", "2024-03-05T10:11:12.123456789Z", "2024-03-05T10:11:12.123Z"},
		{"no zone is utc", "2024-03-05T10:11:12", "2024-03-05T10:11:12.000Z"},
		{"no seconds", "2024-03-05T10:11", "2024-03-05T10:11:00.000Z"},
		{"space separated", "2024-03-05 10:11:12", "2024-03-05T10:11:12.000Z"},
		{"space separated millis", "2024-03-05 10:11:12.5", "2024-03-05T10:11:12.500Z"},
		{"slashes", "2024/03/05 10:11", "2024-03-05T10:11:00.000Z"},
		{"date only", "2024-03-05", "2024-03-05T00:00:00.000Z"},
		{"surrounding whitespace", "  2024-03-05T10:11:12Z\t", "2024-03-05T10:11:12.000Z"},
		{"before epoch", "1969-12-31T23:59:59.999Z", "1969-12-31T23:59:59.999Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ts.ISO())
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "2024-13-01", "12:00", "2024-01-01T25:00:00Z"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedTimestamp), "error should wrap ErrMalformedTimestamp: %v", err)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"2024-01-01T00:00:00.000Z",
		"2024-02-29T23:59:59.999Z",
		"2024-06-01 12:34:56",
		"2024-06-01T12:34:56.789+05:30",
		"1965-07-04T08:00:00Z",
	}
	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			first, err := Parse(s)
			require.NoError(t, err)
			second, err := Parse(first.ISO())
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestEpochMillis(t *testing.T) {
	ts := MustParse("1970-01-01T00:00:01.500Z")
	assert.Equal(t, int64(1500), ts.EpochMillis())
	assert.Equal(t, ts, FromEpochMillis(1500))
	assert.Equal(t, ts, FromTime(time.Unix(1, 500_999_999)))
	assert.Equal(t, time.UTC, ts.Time().Location())
}

func TestNormalize(t *testing.T) {
	s, err := Normalize("2024-01-01 00:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", s)

	_, err = Normalize("yesterday")
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		g        Granularity
		expected string
	}{
		{"1min drops seconds", "2024-01-01T10:15:59.999Z", OneMinute, "2024-01-01T10:15:00.000Z"},
		{"10min down", "2024-01-01T10:14:59Z", TenMinutes, "2024-01-01T10:10:00.000Z"},
		{"10min half up", "2024-01-01T10:15:00Z", TenMinutes, "2024-01-01T10:20:00.000Z"},
		{"10min carries into hour", "2024-01-01T10:55:00Z", TenMinutes, "2024-01-01T11:00:00.000Z"},
		{"30min", "2024-01-01T10:44:00Z", ThirtyMinutes, "2024-01-01T10:30:00.000Z"},
		{"30min up", "2024-01-01T10:45:00Z", ThirtyMinutes, "2024-01-01T11:00:00.000Z"},
		{"1hr drops minutes", "2024-01-01T00:10:00Z", OneHour, "2024-01-01T00:00:00.000Z"},
		{"1hr late in hour", "2024-01-01T00:50:00Z", OneHour, "2024-01-01T00:00:00.000Z"},
		{"6hr down", "2024-01-01T02:59:59Z", SixHours, "2024-01-01T00:00:00.000Z"},
		{"6hr half up", "2024-01-01T03:00:00Z", SixHours, "2024-01-01T06:00:00.000Z"},
		{"6hr carries into day", "2024-01-01T21:00:00Z", SixHours, "2024-01-02T00:00:00.000Z"},
		{"1day morning", "2024-01-01T11:59:59.999Z", OneDay, "2024-01-01T00:00:00.000Z"},
		{"1day noon rounds up", "2024-01-01T12:00:00Z", OneDay, "2024-01-02T00:00:00.000Z"},
		{"1day month end", "2024-01-31T18:00:00Z", OneDay, "2024-02-01T00:00:00.000Z"},
		{"1day year end", "2024-12-31T23:00:00Z", OneDay, "2025-01-01T00:00:00.000Z"},
		{"midnight stays", "2024-01-01T00:00:00Z", OneDay, "2024-01-01T00:00:00.000Z"},
		{"epoch stays", "1970-01-01T00:00:00Z", OneHour, "1970-01-01T00:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParse(tt.input).RoundTo(tt.g)
			assert.Equal(t, tt.expected, got.ISO())
		})
	}
}

// Instants before 1970 are negative on the epoch axis. Rounding across the
// epoch boundary must not lose or flip the sign.
func TestRoundTo_NegativeEpochKeepsSign(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		g        Granularity
		expected string
	}{
		{"1min before epoch", "1969-12-31T23:59:59.999Z", OneMinute, "1969-12-31T23:59:00.000Z"},
		{"1hr before epoch", "1969-12-31T23:59:59Z", OneHour, "1969-12-31T23:00:00.000Z"},
		{"10min carries across epoch", "1969-12-31T23:55:00Z", TenMinutes, "1970-01-01T00:00:00.000Z"},
		{"6hr carries across epoch", "1969-12-31T21:00:00Z", SixHours, "1970-01-01T00:00:00.000Z"},
		{"1day noon before epoch", "1969-12-31T12:00:00Z", OneDay, "1970-01-01T00:00:00.000Z"},
		{"1day morning before epoch", "1969-12-31T11:59:59.999Z", OneDay, "1969-12-31T00:00:00.000Z"},
		{"pre-epoch midnight stays", "1969-12-31T00:00:00Z", OneDay, "1969-12-31T00:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParse(tt.input).RoundTo(tt.g)
			assert.Equal(t, tt.expected, got.ISO())
			assert.Equal(t, int64(0), got.EpochMillis()%tt.g.Millis())
		})
	}
}

func TestRoundTo_Idempotent(t *testing.T) {
	ts := MustParse("2024-05-17T13:47:21.345Z")
	for _, g := range ValidGranularities {
		t.Run(string(g), func(t *testing.T) {
			once := ts.RoundTo(g)
			assert.Equal(t, once, once.RoundTo(g))
		})
	}
}

func TestRoundTo_UnknownGranularity(t *testing.T) {
	ts := MustParse("2024-05-17T13:47:21.345Z")
	assert.Equal(t, ts, ts.RoundTo(Granularity("fortnight")))
}

func TestTimestampJSON(t *testing.T) {
	ts := MustParse("2024-01-01T00:00:00Z")
	data, err := ts.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-01T00:00:00.000Z"`, string(data))

	var back Timestamp
	require.NoError(t, back.UnmarshalJSON([]byte(`"2024-01-01 00:00"`)))
	assert.Equal(t, ts, back)

	assert.ErrorIs(t, back.UnmarshalJSON([]byte(`12`)), ErrMalformedTimestamp)
	assert.ErrorIs(t, back.UnmarshalJSON([]byte(`"soon"`)), ErrMalformedTimestamp)
}
