// Package sparse detects when one of two merged parameters is observed far
// less often than the other, and smooths the sparse one onto the dense one's
// timestamps with a natural cubic spline.
package sparse

import (
	"github.com/banshee-data/series.align/internal/dataset"
)

// DefaultThreshold is the observation-count ratio at which a parameter is
// considered sparse.
const DefaultThreshold = 2.0

// Scenario is a derived snapshot of a two-parameter dataset's densities.
type Scenario struct {
	IsSparse    bool    `json:"isSparse"`
	SparseParam string  `json:"sparseParam,omitempty"`
	DenseParam  string  `json:"denseParam,omitempty"`
	Ratio       float64 `json:"ratio"`
	SparseCount int     `json:"sparseCount"`
	DenseCount  int     `json:"denseCount"`
}

// Analyze counts present values in each of the two value columns and
// computes max/min. ok is false unless the dataset is exactly a time column
// plus two value columns. If either column has no observations the ratio is
// reported as 0 and nothing is flagged: there is nothing to interpolate.
func Analyze(ds *dataset.Dataset, threshold float64) (sc Scenario, ok bool) {
	if len(ds.Headers) != 3 {
		return Scenario{}, false
	}
	colA, colB := ds.Headers[1], ds.Headers[2]
	countA, countB := ds.CountValid(colA), ds.CountValid(colB)

	sparse, dense := colA, colB
	sparseCount, denseCount := countA, countB
	if countB < countA {
		sparse, dense = colB, colA
		sparseCount, denseCount = countB, countA
	}

	sc = Scenario{SparseCount: sparseCount, DenseCount: denseCount}
	if sparseCount == 0 {
		return sc, true
	}
	sc.Ratio = float64(denseCount) / float64(sparseCount)
	if sc.Ratio >= threshold {
		sc.IsSparse = true
		sc.SparseParam = sparse
		sc.DenseParam = dense
	}
	return sc, true
}

// Detect reports a scenario only when one parameter is sparse at
// DefaultThreshold. A column with no observations gives a ratio of 0, so a
// pair where one side is empty is never sparse and Detect returns false.
// Callers that need to tell that apart from a wrong-shaped dataset should
// use Analyze.
func Detect(ds *dataset.Dataset) (Scenario, bool) {
	return DetectWithThreshold(ds, DefaultThreshold)
}

// DetectWithThreshold is Detect with a caller-chosen ratio. The same
// zero-count rule applies.
func DetectWithThreshold(ds *dataset.Dataset, threshold float64) (Scenario, bool) {
	sc, ok := Analyze(ds, threshold)
	if !ok || !sc.IsSparse {
		return Scenario{}, false
	}
	return sc, true
}
