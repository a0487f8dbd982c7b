package combine

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/series.align/internal/bucket"
	"github.com/banshee-data/series.align/internal/monitoring"
	"github.com/banshee-data/series.align/internal/series"
	"github.com/banshee-data/series.align/internal/sparse"
	"github.com/banshee-data/series.align/internal/timeutil"
)

// ComputationType names the operation that produced a Result.
type ComputationType string

const (
	ComputationMerge      ComputationType = "merge"
	ComputationDifference ComputationType = "difference"
)

// Parameters records the two input column names and the output label.
type Parameters struct {
	Param1      string `json:"param1"`
	Param2      string `json:"param2"`
	ResultLabel string `json:"resultLabel"`
}

// Config holds the settings that apply to the computation type; unset
// fields are omitted from JSON.
type Config struct {
	Direction       *Direction            `json:"direction,omitempty"`
	MissingDataMode *MissingMode          `json:"missingDataMode,omitempty"`
	Granularity     *timeutil.Granularity `json:"granularity,omitempty"`
	LabelMode       *LabelMode            `json:"labelMode,omitempty"`
	// Smoothed is set when the sparse column was spline-filled after any
	// bucketing; SparseThreshold is the ratio that was used to detect it.
	Smoothed        *bool    `json:"smoothed,omitempty"`
	SparseThreshold *float64 `json:"sparseThreshold,omitempty"`
}

// Provenance is the flat, serialisable description of a computation. It is
// enough to recompute the result from the two source series; it never holds
// the result's data.
type Provenance struct {
	ComputationType ComputationType        `json:"computationType"`
	SourceSeriesIDs [2]string              `json:"sourceSeriesIds"`
	Parameters      Parameters             `json:"parameters"`
	Config          Config                 `json:"config"`
	Sources         [2]series.ParameterRef `json:"sources"`
}

// withGranularity returns a copy of p with the bucket granularity recorded.
func (p Provenance) withGranularity(g timeutil.Granularity) Provenance {
	p.Config.Granularity = &g
	return p
}

// withSmoothing returns a copy of p marked as spline-smoothed at threshold.
func (p Provenance) withSmoothing(threshold float64) Provenance {
	smoothed := true
	p.Config.Smoothed = &smoothed
	p.Config.SparseThreshold = &threshold
	return p
}

// ParseProvenance decodes and sanity-checks a saved provenance document.
func ParseProvenance(data []byte) (Provenance, error) {
	var p Provenance
	if err := json.Unmarshal(data, &p); err != nil {
		return Provenance{}, fmt.Errorf("failed to parse provenance JSON: %w", err)
	}
	switch p.ComputationType {
	case ComputationMerge, ComputationDifference:
	default:
		return Provenance{}, fmt.Errorf("unknown computation type %q", p.ComputationType)
	}
	if g := p.Config.Granularity; g != nil && !g.IsValid() {
		return Provenance{}, fmt.Errorf("invalid granularity %q (valid: %s)", *g, timeutil.GetValidGranularitiesString())
	}
	if th := p.Config.SparseThreshold; th != nil && *th < 1 {
		return Provenance{}, fmt.Errorf("invalid sparse threshold %g: must be at least 1", *th)
	}
	return p, nil
}

// Recompute rebuilds a result from freshly loaded source series. a and b
// must carry the IDs the provenance names, in order. A recorded granularity
// is re-applied through bucket.Aggregate, then recorded smoothing is
// re-applied through SmoothSparse.
func Recompute(p Provenance, a, b series.Series) (*Result, []monitoring.Diagnostic, error) {
	if a.ID != p.SourceSeriesIDs[0] || b.ID != p.SourceSeriesIDs[1] {
		return nil, nil, fmt.Errorf("%w: want %q and %q, got %q and %q",
			ErrProvenanceMismatch, p.SourceSeriesIDs[0], p.SourceSeriesIDs[1], a.ID, b.ID)
	}

	var (
		res *Result
		err error
	)
	switch p.ComputationType {
	case ComputationMerge:
		opts := MergeOptions{}
		if p.Config.LabelMode != nil {
			opts.LabelMode = *p.Config.LabelMode
		}
		res, err = Merge(a, b, opts)
	case ComputationDifference:
		opts := DiffOptions{}
		if p.Config.Direction != nil {
			opts.Direction = *p.Config.Direction
		}
		if p.Config.MissingDataMode != nil {
			opts.Missing = *p.Config.MissingDataMode
		}
		res, err = Subtract(a, b, opts)
	default:
		return nil, nil, fmt.Errorf("unknown computation type %q", p.ComputationType)
	}
	if err != nil {
		return nil, nil, err
	}

	var diags []monitoring.Diagnostic
	if p.Config.Granularity != nil {
		g := *p.Config.Granularity
		ds, bucketDiags := bucket.Aggregate(res.Dataset, g)
		diags = append(diags, bucketDiags...)
		res = &Result{Dataset: ds, Provenance: res.Provenance.withGranularity(g)}
	}

	if p.Config.Smoothed == nil || !*p.Config.Smoothed {
		return res, diags, nil
	}
	threshold := sparse.DefaultThreshold
	if p.Config.SparseThreshold != nil {
		threshold = *p.Config.SparseThreshold
	}
	smoothed, _, smoothDiags, err := SmoothSparse(res, threshold)
	if err != nil {
		return nil, diags, fmt.Errorf("cannot re-apply smoothing: %w", err)
	}
	return smoothed, append(diags, smoothDiags...), nil
}
