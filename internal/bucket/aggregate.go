// Package bucket re-buckets a dataset onto a regular time grid and trims it
// to the range where every parameter has data.
package bucket

import (
	"sort"

	"github.com/banshee-data/series.align/internal/dataset"
	"github.com/banshee-data/series.align/internal/monitoring"
	"github.com/banshee-data/series.align/internal/series"
	"github.com/banshee-data/series.align/internal/timeutil"
)

type group struct {
	at     timeutil.Timestamp
	values map[string]series.Value
}

// Aggregate rounds every row's time to g and collapses rows that share a
// bucket. Each column keeps the first present value seen in original row
// order; later readings never overwrite it and values are never averaged.
// Buckets are sorted ascending and the result is passed through Trim.
//
// Rows with an unparseable time are dropped and reported.
func Aggregate(ds *dataset.Dataset, g timeutil.Granularity) (*dataset.Dataset, []monitoring.Diagnostic) {
	times, ok, diags := ds.Times()
	cols := ds.ValueColumns()

	groups := make(map[timeutil.Timestamp]*group)
	order := make([]*group, 0, len(ds.Rows))
	for i, r := range ds.Rows {
		if !ok[i] {
			continue
		}
		key := times[i].RoundTo(g)
		grp, exists := groups[key]
		if !exists {
			grp = &group{at: key, values: make(map[string]series.Value, len(cols))}
			groups[key] = grp
			order = append(order, grp)
		}
		for _, col := range cols {
			if grp.values[col].Valid {
				continue
			}
			if v := r.Values[col]; v.Valid {
				grp.values[col] = v
			}
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i].at < order[j].at })

	rows := make([]dataset.Row, len(order))
	for i, grp := range order {
		rows[i] = dataset.Row{Time: grp.at.ISO(), Values: grp.values}
	}
	aggregated := dataset.MustNew(ds.Headers, rows)

	trimmed, found := Trim(aggregated)
	if !found {
		diags = append(diags, monitoring.Infof(monitoring.NoOverlapRange,
			"no %s bucket has non-zero data in every column; returning %d untrimmed rows", g, aggregated.Len()))
	}
	return trimmed, diags
}

// Trim keeps the inclusive run of rows between the first and last row where
// every value column is present and non-zero. A zero reading counts as no
// data here. When no row qualifies the input is returned unchanged and found
// is false.
func Trim(ds *dataset.Dataset) (out *dataset.Dataset, found bool) {
	cols := ds.ValueColumns()
	complete := func(r dataset.Row) bool {
		for _, col := range cols {
			if !r.Values[col].NonZero() {
				return false
			}
		}
		return true
	}

	first, last := -1, -1
	for i, r := range ds.Rows {
		if complete(r) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return ds, false
	}
	if first == 0 && last == len(ds.Rows)-1 {
		return ds, true
	}
	return dataset.MustNew(ds.Headers, ds.Rows[first:last+1]), true
}
