package sparse

import (
	"errors"
	"fmt"

	"github.com/banshee-data/series.align/internal/dataset"
	"github.com/banshee-data/series.align/internal/monitoring"
	"github.com/banshee-data/series.align/internal/series"
	"github.com/banshee-data/series.align/internal/spline"
)

// ErrNotSparse is returned when Smooth is handed a scenario that flagged nothing.
var ErrNotSparse = errors.New("scenario is not sparse")

// Smooth fills the scenario's sparse column at every row where the dense
// column has a value, using a natural cubic spline through the sparse
// observations. Existing sparse observations are kept as they are, and rows
// outside the sparse column's observed range stay missing.
func Smooth(ds *dataset.Dataset, sc Scenario) (*dataset.Dataset, []monitoring.Diagnostic, error) {
	if !sc.IsSparse {
		return nil, nil, ErrNotSparse
	}
	if !ds.HasColumn(sc.SparseParam) || !ds.HasColumn(sc.DenseParam) {
		return nil, nil, fmt.Errorf("dataset lacks column %q or %q", sc.SparseParam, sc.DenseParam)
	}

	knots, diags := ds.ExtractSeries(sc.SparseParam, series.ParameterRef{DisplayName: sc.SparseParam})
	model := spline.Fit(knots.Points)
	if model.Knots() < 2 {
		diags = append(diags, monitoring.Warnf(monitoring.InsufficientSeries,
			"%q has %d distinct observations; spline degrades to %s", sc.SparseParam, model.Knots(), degradedForm(model.Knots())))
	}

	times, ok, _ := ds.Times()
	rows := make([]dataset.Row, len(ds.Rows))
	for i, r := range ds.Rows {
		values := make(map[string]series.Value, len(r.Values))
		for k, v := range r.Values {
			values[k] = v
		}
		if ok[i] && !values[sc.SparseParam].Valid && values[sc.DenseParam].Valid {
			values[sc.SparseParam] = model.At(times[i])
		}
		rows[i] = dataset.Row{Time: r.Time, Values: values}
	}
	return dataset.MustNew(ds.Headers, rows), diags, nil
}

func degradedForm(knots int) string {
	if knots == 1 {
		return "a single constant point"
	}
	return "all missing"
}
