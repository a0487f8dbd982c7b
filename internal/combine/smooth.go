package combine

import (
	"errors"
	"fmt"

	"github.com/banshee-data/series.align/internal/monitoring"
	"github.com/banshee-data/series.align/internal/sparse"
)

// ErrNotTwoColumns is returned by SmoothSparse when the result is not a time
// column plus exactly two value columns.
var ErrNotTwoColumns = errors.New("sparse detection needs exactly two value columns")

// SmoothSparse detects a sparse/dense pair in res at threshold and fills the
// sparse column with sparse.Smooth. The returned provenance records the
// smoothing so Recompute can reproduce it. A result that is not sparse yields
// sparse.ErrNotSparse alongside the scenario that was measured.
func SmoothSparse(res *Result, threshold float64) (*Result, sparse.Scenario, []monitoring.Diagnostic, error) {
	sc, ok := sparse.Analyze(res.Dataset, threshold)
	if !ok {
		return nil, sc, nil, fmt.Errorf("%w: got %d", ErrNotTwoColumns, len(res.Dataset.Headers)-1)
	}
	ds, diags, err := sparse.Smooth(res.Dataset, sc)
	if err != nil {
		return nil, sc, nil, err
	}
	return &Result{Dataset: ds, Provenance: res.Provenance.withSmoothing(threshold)}, sc, diags, nil
}
