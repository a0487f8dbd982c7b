// Package combine merges and subtracts two independently sourced series on
// the union of their timestamps, and records enough provenance to recompute
// the result later from freshly loaded sources.
package combine

import (
	"fmt"
	"sort"

	"github.com/banshee-data/series.align/internal/dataset"
	"github.com/banshee-data/series.align/internal/series"
	"github.com/banshee-data/series.align/internal/timeutil"
)

// Result is a combined dataset plus how it was made.
type Result struct {
	Dataset    *dataset.Dataset `json:"dataset"`
	Provenance Provenance       `json:"provenance"`
}

// MergeOptions configures Merge. The zero value uses LabelAlways.
type MergeOptions struct {
	LabelMode LabelMode
}

// Merge lays a and b side by side on the sorted union of their timestamps.
// Missing values are dropped before alignment, so a timestamp where a series
// only has nulls does not appear on its account. Each row carries both
// columns; the side without an observation is missing.
func Merge(a, b series.Series, opts MergeOptions) (*Result, error) {
	mode, err := ParseLabelMode(string(opts.LabelMode))
	if err != nil {
		return nil, err
	}
	colA, colB, err := columnLabels(a.Ref, b.Ref, mode)
	if err != nil {
		return nil, err
	}

	lookupA, lookupB := a.Lookup(), b.Lookup()
	times := unionTimes(lookupA, lookupB)
	rows := make([]dataset.Row, len(times))
	for i, ts := range times {
		rows[i] = dataset.Row{
			Time: ts.ISO(),
			Values: map[string]series.Value{
				colA: lookupValue(lookupA, ts),
				colB: lookupValue(lookupB, ts),
			},
		}
	}

	ds, err := dataset.New([]string{dataset.DefaultTimeColumn, colA, colB}, rows)
	if err != nil {
		return nil, incompatible("cannot build merged dataset: %v", err)
	}

	return &Result{
		Dataset: ds,
		Provenance: Provenance{
			ComputationType: ComputationMerge,
			SourceSeriesIDs: [2]string{a.ID, b.ID},
			Parameters: Parameters{
				Param1:      colA,
				Param2:      colB,
				ResultLabel: fmt.Sprintf("%s + %s", colA, colB),
			},
			Config:  Config{LabelMode: &mode},
			Sources: [2]series.ParameterRef{a.Ref, b.Ref},
		},
	}, nil
}

func unionTimes(lookups ...map[timeutil.Timestamp]float64) []timeutil.Timestamp {
	seen := make(map[timeutil.Timestamp]struct{})
	for _, l := range lookups {
		for ts := range l {
			seen[ts] = struct{}{}
		}
	}
	times := make([]timeutil.Timestamp, 0, len(seen))
	for ts := range seen {
		times = append(times, ts)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times
}

func lookupValue(lookup map[timeutil.Timestamp]float64, ts timeutil.Timestamp) series.Value {
	if v, ok := lookup[ts]; ok {
		return series.Some(v)
	}
	return series.Null
}
