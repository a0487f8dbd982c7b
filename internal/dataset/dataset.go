// Package dataset implements the tabular form every engine operation
// consumes and produces: ordered headers with the time column first, rows
// keyed by header, and a summary kept consistent with the rows.
package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/series.align/internal/monitoring"
	"github.com/banshee-data/series.align/internal/series"
	"github.com/banshee-data/series.align/internal/timeutil"
)

// DefaultTimeColumn is the header ingestion gives the time column.
const DefaultTimeColumn = "time"

// ErrInvalidDataset is returned when headers cannot describe a dataset.
var ErrInvalidDataset = errors.New("invalid dataset")

// Row is one record. Time is kept as supplied so malformed values can be
// reported rather than lost; Values holds every non-time header.
type Row struct {
	Time   string
	Values map[string]series.Value
}

// Value returns the value under column, missing when absent.
func (r Row) Value(column string) series.Value {
	return r.Values[column]
}

// Summary describes a dataset's shape.
type Summary struct {
	TotalRows      int    `json:"totalRows"`
	ValidRows      int    `json:"validRows"`
	ColumnCount    int    `json:"columnCount"`
	TimeColumnName string `json:"timeColumnName"`
}

// Dataset is immutable once built by New; operations return new datasets.
type Dataset struct {
	Headers []string
	Rows    []Row
	Summary Summary
}

// New validates headers, copies rows so every row carries every header, and
// computes the summary. Keys not named in headers are dropped.
func New(headers []string, rows []Row) (*Dataset, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: no headers", ErrInvalidDataset)
	}
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if strings.TrimSpace(h) == "" {
			return nil, fmt.Errorf("%w: empty header", ErrInvalidDataset)
		}
		if seen[h] {
			return nil, fmt.Errorf("%w: duplicate header %q", ErrInvalidDataset, h)
		}
		seen[h] = true
	}

	ds := &Dataset{
		Headers: append([]string(nil), headers...),
		Rows:    make([]Row, len(rows)),
	}
	valueCols := ds.ValueColumns()
	valid := 0
	for i, r := range rows {
		values := make(map[string]series.Value, len(valueCols))
		for _, col := range valueCols {
			values[col] = r.Values[col]
		}
		ds.Rows[i] = Row{Time: r.Time, Values: values}
		if _, err := timeutil.Parse(r.Time); err == nil {
			valid++
		}
	}
	ds.Summary = Summary{
		TotalRows:      len(ds.Rows),
		ValidRows:      valid,
		ColumnCount:    len(ds.Headers),
		TimeColumnName: ds.Headers[0],
	}
	return ds, nil
}

// MustNew is New for fixtures; it panics on invalid headers.
func MustNew(headers []string, rows []Row) *Dataset {
	ds, err := New(headers, rows)
	if err != nil {
		panic(err)
	}
	return ds
}

// TimeColumn returns the first header.
func (d *Dataset) TimeColumn() string {
	return d.Headers[0]
}

// ValueColumns returns every header after the time column.
func (d *Dataset) ValueColumns() []string {
	return append([]string(nil), d.Headers[1:]...)
}

// HasColumn reports whether name is a value column.
func (d *Dataset) HasColumn(name string) bool {
	for _, h := range d.Headers[1:] {
		if h == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Times parses every row's time. Rows that fail to parse are reported as
// diagnostics and flagged false in ok.
func (d *Dataset) Times() (times []timeutil.Timestamp, ok []bool, diags []monitoring.Diagnostic) {
	times = make([]timeutil.Timestamp, len(d.Rows))
	ok = make([]bool, len(d.Rows))
	for i, r := range d.Rows {
		ts, err := timeutil.Parse(r.Time)
		if err != nil {
			diags = append(diags, monitoring.Warnf(monitoring.MalformedTimestamp, "row %d: %v", i, err))
			continue
		}
		times[i] = ts
		ok[i] = true
	}
	return times, ok, diags
}

// ExtractSeries pulls one column out as a time-ordered series. Rows whose
// time does not parse are left out and reported.
func (d *Dataset) ExtractSeries(column string, ref series.ParameterRef) (series.Series, []monitoring.Diagnostic) {
	times, ok, diags := d.Times()
	points := make([]series.Point, 0, len(d.Rows))
	for i, r := range d.Rows {
		if !ok[i] {
			continue
		}
		points = append(points, series.Point{Time: times[i], Value: r.Values[column]})
	}
	if !d.HasColumn(column) {
		diags = append(diags, monitoring.Warnf(monitoring.AmbiguousParameterKey, "column %q not present; series is empty", column))
	}
	return series.New(ref, points).Normalize(), diags
}

// CountValid returns the number of present values in column.
func (d *Dataset) CountValid(column string) int {
	n := 0
	for _, r := range d.Rows {
		if r.Values[column].Valid {
			n++
		}
	}
	return n
}
