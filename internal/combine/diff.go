package combine

import (
	"fmt"
	"strings"

	"github.com/banshee-data/series.align/internal/dataset"
	"github.com/banshee-data/series.align/internal/series"
)

// Direction selects the operand order.
type Direction string

const (
	AMinusB Direction = "a-b"
	BMinusA Direction = "b-a"
)

// ParseDirection accepts "a-b" or "b-a"; empty means a-b.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.ReplaceAll(s, " ", ""))); d {
	case "", AMinusB:
		return AMinusB, nil
	case BMinusA:
		return BMinusA, nil
	default:
		return "", fmt.Errorf("invalid direction %q (valid: a-b, b-a)", s)
	}
}

// MissingMode decides what happens when only one side has a value.
type MissingMode string

const (
	// MissingSkip omits the row.
	MissingSkip MissingMode = "skip"
	// MissingZero substitutes 0 for the absent side.
	MissingZero MissingMode = "zero"
)

// ParseMissingMode accepts "skip" or "zero"; empty means skip.
func ParseMissingMode(s string) (MissingMode, error) {
	switch m := MissingMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", MissingSkip:
		return MissingSkip, nil
	case MissingZero:
		return MissingZero, nil
	default:
		return "", fmt.Errorf("invalid missing data mode %q (valid: skip, zero)", s)
	}
}

// DiffOptions configures Subtract. The zero value is a-b with skip.
type DiffOptions struct {
	Direction Direction
	Missing   MissingMode
}

// Subtract computes a-b (or b-a) on the union of both series' timestamps.
//
// A reading of exactly zero means "no signal", so whenever either operand is
// zero the result is zero. Under MissingZero an absent side becomes 0, which
// means every row with a gap is zero.
func Subtract(a, b series.Series, opts DiffOptions) (*Result, error) {
	dir, err := ParseDirection(string(opts.Direction))
	if err != nil {
		return nil, err
	}
	missing, err := ParseMissingMode(string(opts.Missing))
	if err != nil {
		return nil, err
	}
	nameA, nameB, err := columnLabels(a.Ref, b.Ref, LabelAlways)
	if err != nil {
		return nil, err
	}
	label := DifferenceLabel(nameA, nameB)
	if dir == BMinusA {
		label = DifferenceLabel(nameB, nameA)
	}

	lookupA, lookupB := a.Lookup(), b.Lookup()
	times := unionTimes(lookupA, lookupB)
	rows := make([]dataset.Row, 0, len(times))
	for _, ts := range times {
		va, okA := lookupA[ts]
		vb, okB := lookupB[ts]
		if !okA || !okB {
			if missing == MissingSkip {
				continue
			}
		}
		rows = append(rows, dataset.Row{
			Time:   ts.ISO(),
			Values: map[string]series.Value{label: series.Some(difference(va, vb, dir))},
		})
	}

	ds, err := dataset.New([]string{dataset.DefaultTimeColumn, label}, rows)
	if err != nil {
		return nil, incompatible("cannot build difference dataset: %v", err)
	}

	return &Result{
		Dataset: ds,
		Provenance: Provenance{
			ComputationType: ComputationDifference,
			SourceSeriesIDs: [2]string{a.ID, b.ID},
			Parameters: Parameters{
				Param1:      nameA,
				Param2:      nameB,
				ResultLabel: label,
			},
			Config:  Config{Direction: &dir, MissingDataMode: &missing},
			Sources: [2]series.ParameterRef{a.Ref, b.Ref},
		},
	}, nil
}

// difference applies the zero rule. Absent operands arrive as 0.
func difference(a, b float64, dir Direction) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	if dir == BMinusA {
		return b - a
	}
	return a - b
}
