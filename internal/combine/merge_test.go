package combine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/series.align/internal/series"
	"github.com/banshee-data/series.align/internal/testutil"
	"github.com/banshee-data/series.align/internal/timeutil"
)

func TestMerge_SameNameDifferentSources(t *testing.T) {
	a := testutil.Series("Temp", "GP", testutil.Pt("2024-01-01T00:00:00.000Z", 5))
	b := testutil.Series("Temp", "FPOD", testutil.Pt("2024-01-01T00:00:00.000Z", 7))

	res, err := Merge(a, b, MergeOptions{})
	require.NoError(t, err)

	ds := res.Dataset
	assert.Equal(t, []string{"time", "Temp [GP]", "Temp [FPOD]"}, ds.Headers)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "2024-01-01T00:00:00.000Z", ds.Rows[0].Time)
	assert.Equal(t, series.Some(5), ds.Rows[0].Value("Temp [GP]"))
	assert.Equal(t, series.Some(7), ds.Rows[0].Value("Temp [FPOD]"))
}

func TestMerge_UnionOfTimestamps(t *testing.T) {
	a := testutil.Series("Wave Height", "GP",
		testutil.Pt("2024-01-01T00:00:00Z", 1),
		testutil.Pt("2024-01-01T02:00:00Z", 3),
		testutil.NullPt("2024-01-01T05:00:00Z"),
	)
	b := testutil.Series("Wind Speed", "FPOD",
		testutil.Pt("2024-01-01T01:00:00Z", 10),
		testutil.Pt("2024-01-01T02:00:00Z", 20),
		testutil.Pt("2024-01-01T04:00:00Z", 40),
	)

	res, err := Merge(a, b, MergeOptions{})
	require.NoError(t, err)

	want := map[timeutil.Timestamp]bool{}
	for _, s := range []series.Series{a, b} {
		for ts := range s.Lookup() {
			want[ts] = true
		}
	}
	require.Equal(t, len(want), res.Dataset.Len())

	var prev timeutil.Timestamp
	for i, r := range res.Dataset.Rows {
		ts := timeutil.MustParse(r.Time)
		assert.True(t, want[ts], "unexpected timestamp %s", r.Time)
		if i > 0 {
			assert.Greater(t, ts, prev, "rows must be ascending")
		}
		prev = ts
	}

	byTime := map[string][2]series.Value{}
	for _, r := range res.Dataset.Rows {
		byTime[r.Time] = [2]series.Value{r.Value("Wave Height [GP]"), r.Value("Wind Speed [FPOD]")}
	}
	assert.Equal(t, [2]series.Value{series.Some(1), series.Null}, byTime["2024-01-01T00:00:00.000Z"])
	assert.Equal(t, [2]series.Value{series.Null, series.Some(10)}, byTime["2024-01-01T01:00:00.000Z"])
	assert.Equal(t, [2]series.Value{series.Some(3), series.Some(20)}, byTime["2024-01-01T02:00:00.000Z"])
	_, hasNullOnly := byTime["2024-01-01T05:00:00.000Z"]
	assert.False(t, hasNullOnly, "a timestamp with only a null reading is not part of the union")
}

func TestMerge_LabelModes(t *testing.T) {
	a := testutil.Series("Wave Height", "GP", testutil.Pt("2024-01-01T00:00:00Z", 1))
	b := testutil.Series("Wind Speed", "FPOD", testutil.Pt("2024-01-01T00:00:00Z", 2))

	tests := []struct {
		name     string
		mode     LabelMode
		expected []string
	}{
		{"default is always", "", []string{"time", "Wave Height [GP]", "Wind Speed [FPOD]"}},
		{"always", LabelAlways, []string{"time", "Wave Height [GP]", "Wind Speed [FPOD]"}},
		{"when needed", LabelWhenNeeded, []string{"time", "Wave Height", "Wind Speed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Merge(a, b, MergeOptions{LabelMode: tt.mode})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.Dataset.Headers)
		})
	}

	t.Run("when needed still disambiguates equal names", func(t *testing.T) {
		res, err := Merge(
			testutil.Series("Temp", "GP", testutil.Pt("2024-01-01T00:00:00Z", 1)),
			testutil.Series("Temp", "FPOD", testutil.Pt("2024-01-01T00:00:00Z", 2)),
			MergeOptions{LabelMode: LabelWhenNeeded},
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"time", "Temp [GP]", "Temp [FPOD]"}, res.Dataset.Headers)
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := Merge(a, b, MergeOptions{LabelMode: "sometimes"})
		assert.Error(t, err)
	})
}

func TestMerge_CollidingLabels(t *testing.T) {
	a := testutil.Series("Temp", "GP", testutil.Pt("2024-01-01T00:00:00Z", 1))
	b := testutil.Series("Temp", "GP", testutil.Pt("2024-01-01T00:00:00Z", 2))

	_, err := Merge(a, b, MergeOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompatibleInputs))

	var typed *IncompatibleInputsError
	require.ErrorAs(t, err, &typed)
	assert.Contains(t, typed.Reason, "Temp [GP]")
}

func TestMerge_DuplicateTimestampsFirstWins(t *testing.T) {
	a := testutil.Series("A", "x",
		testutil.NullPt("2024-01-01T00:00:00Z"),
		testutil.Pt("2024-01-01T00:00:00Z", 2),
		testutil.Pt("2024-01-01T00:00:00Z", 3),
	)
	b := testutil.Series("B", "y", testutil.Pt("2024-01-01T00:00:00Z", 9))

	res, err := Merge(a, b, MergeOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Dataset.Len())
	assert.Equal(t, series.Some(2), res.Dataset.Rows[0].Value("A [x]"))
}

func TestMerge_Provenance(t *testing.T) {
	a := testutil.Series("Temp", "GP", testutil.Pt("2024-01-01T00:00:00Z", 1))
	b := testutil.Series("Salinity", "FPOD", testutil.Pt("2024-01-01T00:00:00Z", 2))

	res, err := Merge(a, b, MergeOptions{})
	require.NoError(t, err)

	p := res.Provenance
	assert.Equal(t, ComputationMerge, p.ComputationType)
	assert.Equal(t, [2]string{"Temp@GP", "Salinity@FPOD"}, p.SourceSeriesIDs)
	assert.Equal(t, "Temp [GP]", p.Parameters.Param1)
	assert.Equal(t, "Salinity [FPOD]", p.Parameters.Param2)
	require.NotNil(t, p.Config.LabelMode)
	assert.Equal(t, LabelAlways, *p.Config.LabelMode)
	assert.Nil(t, p.Config.Direction)
	assert.Equal(t, a.Ref, p.Sources[0])
}

func TestMerge_EmptyInputs(t *testing.T) {
	res, err := Merge(testutil.Series("A", "x"), testutil.Series("B", "y"), MergeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Dataset.Len())
	assert.Equal(t, 3, res.Dataset.Summary.ColumnCount)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := testutil.Series("A", "x", testutil.Pt("2024-01-01T01:00:00Z", 1), testutil.Pt("2024-01-01T00:00:00Z", 2))
	b := testutil.Series("B", "y", testutil.Pt("2024-01-01T00:30:00Z", 3))

	_, err := Merge(a, b, MergeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T01:00:00.000Z", a.Points[0].Time.ISO())
}
