package combine

import (
	"fmt"

	"github.com/banshee-data/series.align/internal/bucket"
	"github.com/banshee-data/series.align/internal/dataset"
	"github.com/banshee-data/series.align/internal/monitoring"
	"github.com/banshee-data/series.align/internal/timeutil"
)

// State is a Preview's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateComputed
	StateRounded
	StateConfirmed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComputed:
		return "computed"
	case StateRounded:
		return "rounded"
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Preview walks a merge or difference result through
// idle → computed → rounded* → confirmed | cancelled.
//
// The raw result is never modified. The selected granularity is the only
// thing that changes, and each Round recomputes from the raw result.
type Preview struct {
	state       State
	raw         *Result
	granularity timeutil.Granularity
	current     *dataset.Dataset
}

// NewPreview returns an idle preview.
func NewPreview() *Preview {
	return &Preview{}
}

// State returns the current state.
func (p *Preview) State() State { return p.state }

// Granularity returns the selected granularity, empty until Round is called.
func (p *Preview) Granularity() timeutil.Granularity { return p.granularity }

// Current returns the dataset a chart would show right now.
func (p *Preview) Current() *dataset.Dataset { return p.current }

// Load moves an idle preview to computed.
func (p *Preview) Load(raw *Result) error {
	if p.state != StateIdle {
		return p.invalid("load")
	}
	if raw == nil || raw.Dataset == nil {
		return fmt.Errorf("preview needs a computed result")
	}
	p.raw = raw
	p.current = raw.Dataset
	p.state = StateComputed
	return nil
}

// Round re-buckets the raw result at g.
func (p *Preview) Round(g timeutil.Granularity) ([]monitoring.Diagnostic, error) {
	if p.state != StateComputed && p.state != StateRounded {
		return nil, p.invalid("round")
	}
	if !g.IsValid() {
		return nil, fmt.Errorf("invalid granularity %q (valid: %s)", g, timeutil.GetValidGranularitiesString())
	}
	ds, diags := bucket.Aggregate(p.raw.Dataset, g)
	p.granularity = g
	p.current = ds
	p.state = StateRounded
	return diags, nil
}

// Confirm finalises the preview and returns the result to plot.
func (p *Preview) Confirm() (*Result, error) {
	if p.state != StateComputed && p.state != StateRounded {
		return nil, p.invalid("confirm")
	}
	prov := p.raw.Provenance
	if p.state == StateRounded {
		prov = prov.withGranularity(p.granularity)
	}
	p.state = StateConfirmed
	return &Result{Dataset: p.current, Provenance: prov}, nil
}

// Cancel discards the preview.
func (p *Preview) Cancel() error {
	if p.state == StateConfirmed || p.state == StateCancelled {
		return p.invalid("cancel")
	}
	p.state = StateCancelled
	p.current = nil
	return nil
}

func (p *Preview) invalid(action string) error {
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, p.state)
}
