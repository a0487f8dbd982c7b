package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/series.align/internal/bucket"
	"github.com/banshee-data/series.align/internal/combine"
	"github.com/banshee-data/series.align/internal/fsutil"
	"github.com/banshee-data/series.align/internal/monitoring"
	"github.com/banshee-data/series.align/internal/series"
	"github.com/banshee-data/series.align/internal/sparse"
	"github.com/banshee-data/series.align/internal/timeutil"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputFlags are shared by every command that produces a document.
type outputFlags struct {
	path string
	dir  string
}

func (o *outputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.path, "out", "", "Write the result here instead of stdout")
	fs.StringVar(&o.dir, "out-dir", "", "Write the result into this directory, named after its label")
}

func (a *app) granularity(s string) (timeutil.Granularity, error) {
	if s == "" {
		return "", nil
	}
	g, err := timeutil.ParseGranularity(s)
	if err != nil {
		return "", usagef("%v", err)
	}
	return g, nil
}

func (a *app) threshold(v float64) (float64, error) {
	if v == 0 {
		return a.cfg.GetSparseRatioThreshold(), nil
	}
	if v < 1 {
		return 0, usagef("-threshold must be at least 1, got %g", v)
	}
	return v, nil
}

// loadPair loads both operands and checks they may be combined.
func (a *app) loadPair(opA, opB *operand) (series.Series, series.Series, []monitoring.Diagnostic, error) {
	if err := combine.CheckEligibility(opA.selection(), opB.selection()); err != nil {
		return series.Series{}, series.Series{}, nil, err
	}
	sa, diags, err := a.load(opA)
	if err != nil {
		return series.Series{}, series.Series{}, nil, err
	}
	sb, more, err := a.load(opB)
	if err != nil {
		return series.Series{}, series.Series{}, nil, err
	}
	return sa, sb, append(diags, more...), nil
}

// preview runs a raw result through the preview lifecycle: optional
// rounding, then confirmation.
func preview(raw *combine.Result, g timeutil.Granularity) (*combine.Result, []monitoring.Diagnostic, error) {
	p := combine.NewPreview()
	if err := p.Load(raw); err != nil {
		return nil, nil, err
	}
	var diags []monitoring.Diagnostic
	if g != "" {
		d, err := p.Round(g)
		if err != nil {
			return nil, nil, err
		}
		diags = d
	}
	final, err := p.Confirm()
	if err != nil {
		return nil, nil, err
	}
	return final, diags, nil
}

func (a *app) handleMerge(args []string) error {
	fs := a.newFlagSet("merge")
	var opA, opB operand
	var out outputFlags
	opA.register(fs, "a")
	opB.register(fs, "b")
	out.register(fs)
	labelMode := fs.String("label-mode", "", "Column labels: always or when_needed (default from config)")
	round := fs.String("round", "", "Re-bucket the merged result to this granularity")
	smooth := fs.Bool("smooth", false, "Spline a sparse column onto the dense column's timestamps")
	threshold := fs.Float64("threshold", 0, "Sparse ratio threshold (default from config)")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	mode := a.cfg.GetLabelMode()
	if *labelMode != "" {
		m, err := combine.ParseLabelMode(*labelMode)
		if err != nil {
			return usagef("%v", err)
		}
		mode = m
	}
	g, err := a.granularity(*round)
	if err != nil {
		return err
	}
	th, err := a.threshold(*threshold)
	if err != nil {
		return err
	}

	sa, sb, diags, err := a.loadPair(&opA, &opB)
	if err != nil {
		return err
	}
	raw, err := combine.Merge(sa, sb, combine.MergeOptions{LabelMode: mode})
	if err != nil {
		return err
	}
	final, more, err := preview(raw, g)
	if err != nil {
		return err
	}
	diags = append(diags, more...)

	result := output{Dataset: final.Dataset, Provenance: &final.Provenance}
	if sc, ok := sparse.Analyze(final.Dataset, th); ok {
		result.Scenario = &sc
		if *smooth && sc.IsSparse {
			smoothed, _, more, err := combine.SmoothSparse(final, th)
			if err != nil {
				return err
			}
			result.Dataset = smoothed.Dataset
			result.Provenance = &smoothed.Provenance
			diags = append(diags, more...)
		}
	}
	result.Diagnostics = diags
	return a.emit(result, out.path, out.dir, final.Provenance.Parameters.ResultLabel)
}

func (a *app) handleDiff(args []string) error {
	fs := a.newFlagSet("diff")
	var opA, opB operand
	var out outputFlags
	opA.register(fs, "a")
	opB.register(fs, "b")
	out.register(fs)
	direction := fs.String("direction", "", "a-b or b-a (default from config)")
	missing := fs.String("missing", "", "skip or zero (default from config)")
	round := fs.String("round", "", "Re-bucket the difference to this granularity")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	opts := combine.DiffOptions{
		Direction: a.cfg.GetDifferenceDirection(),
		Missing:   a.cfg.GetMissingDataMode(),
	}
	if *direction != "" {
		d, err := combine.ParseDirection(*direction)
		if err != nil {
			return usagef("%v", err)
		}
		opts.Direction = d
	}
	if *missing != "" {
		m, err := combine.ParseMissingMode(*missing)
		if err != nil {
			return usagef("%v", err)
		}
		opts.Missing = m
	}
	g, err := a.granularity(*round)
	if err != nil {
		return err
	}

	sa, sb, diags, err := a.loadPair(&opA, &opB)
	if err != nil {
		return err
	}
	raw, err := combine.Subtract(sa, sb, opts)
	if err != nil {
		return err
	}
	final, more, err := preview(raw, g)
	if err != nil {
		return err
	}

	result := output{
		Dataset:     final.Dataset,
		Provenance:  &final.Provenance,
		Diagnostics: append(diags, more...),
	}
	return a.emit(result, out.path, out.dir, final.Provenance.Parameters.ResultLabel)
}

func (a *app) handleRound(args []string) error {
	fs := a.newFlagSet("round")
	var out outputFlags
	out.register(fs)
	in := fs.String("in", "", "Dataset JSON")
	granularity := fs.String("granularity", "", "Bucket size (default from config)")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	g := a.cfg.GetDefaultGranularity()
	if *granularity != "" {
		parsed, err := a.granularity(*granularity)
		if err != nil {
			return err
		}
		g = parsed
	}
	ds, err := a.loadDataset(*in)
	if err != nil {
		return err
	}
	rounded, diags := bucket.Aggregate(ds, g)
	return a.emit(output{Dataset: rounded, Diagnostics: diags}, out.path, out.dir, "rounded "+string(g))
}

func (a *app) handleDetect(args []string) error {
	fs := a.newFlagSet("detect")
	in := fs.String("in", "", "Dataset JSON with a time column and two value columns")
	threshold := fs.Float64("threshold", 0, "Sparse ratio threshold (default from config)")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	th, err := a.threshold(*threshold)
	if err != nil {
		return err
	}
	ds, err := a.loadDataset(*in)
	if err != nil {
		return err
	}
	sc, ok := sparse.Analyze(ds, th)
	if !ok {
		return fmt.Errorf("dataset has %d columns; detection needs a time column and exactly two value columns", len(ds.Headers))
	}
	return a.emit(output{Scenario: &sc}, "", "", "")
}

func (a *app) handleSmooth(args []string) error {
	fs := a.newFlagSet("smooth")
	var out outputFlags
	out.register(fs)
	in := fs.String("in", "", "Dataset JSON with a time column and two value columns")
	threshold := fs.Float64("threshold", 0, "Sparse ratio threshold (default from config)")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	th, err := a.threshold(*threshold)
	if err != nil {
		return err
	}
	ds, err := a.loadDataset(*in)
	if err != nil {
		return err
	}
	sc, ok := sparse.Analyze(ds, th)
	if !ok {
		return fmt.Errorf("dataset has %d columns; smoothing needs a time column and exactly two value columns", len(ds.Headers))
	}
	smoothed, diags, err := sparse.Smooth(ds, sc)
	if err != nil {
		return fmt.Errorf("cannot smooth (ratio %.2f below %.2f): %w", sc.Ratio, th, err)
	}
	return a.emit(output{Dataset: smoothed, Scenario: &sc, Diagnostics: diags}, out.path, out.dir, "smoothed "+sc.SparseParam)
}

func (a *app) handleResolve(args []string) error {
	fs := a.newFlagSet("resolve")
	in := fs.String("in", "", "Dataset JSON whose columns are the candidate keys")
	keys := fs.String("keys", "", "Comma-separated candidate keys (instead of -in)")
	param := fs.String("param", "", "Display name to resolve")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *param == "" {
		return usagef("-param is required")
	}

	var candidates []string
	switch {
	case *in != "":
		ds, err := a.loadDataset(*in)
		if err != nil {
			return err
		}
		candidates = ds.ValueColumns()
	case *keys != "":
		for _, k := range strings.Split(*keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				candidates = append(candidates, k)
			}
		}
	default:
		return usagef("one of -in or -keys is required")
	}

	m, ok := a.resolver.Resolve(candidates, *param)
	if !ok {
		return fmt.Errorf("no key matches %q among %v", *param, candidates)
	}
	return a.emit(output{Resolved: &m}, "", "", "")
}

func (a *app) handleRecompute(args []string) error {
	fs := a.newFlagSet("recompute")
	var opA, opB operand
	var out outputFlags
	opA.register(fs, "a")
	opB.register(fs, "b")
	out.register(fs)
	provPath := fs.String("provenance", "", "Saved provenance, or a full result document carrying one")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *provPath == "" {
		return usagef("-provenance is required")
	}

	prov, err := a.loadProvenance(*provPath)
	if err != nil {
		return err
	}
	for i, o := range []*operand{&opA, &opB} {
		src := prov.Sources[i]
		if o.param == "" {
			o.param = src.DisplayName
		}
		if o.source == "" {
			o.source = src.SourceLabel
		}
		if o.id == "" {
			o.id = prov.SourceSeriesIDs[i]
		}
		if o.axis == "" {
			o.axis = string(src.Axis)
		}
	}

	sa, diags, err := a.load(&opA)
	if err != nil {
		return err
	}
	sb, more, err := a.load(&opB)
	if err != nil {
		return err
	}
	diags = append(diags, more...)

	res, more, err := combine.Recompute(prov, sa, sb)
	if err != nil {
		return err
	}
	result := output{
		Dataset:     res.Dataset,
		Provenance:  &res.Provenance,
		Diagnostics: append(diags, more...),
	}
	return a.emit(result, out.path, out.dir, res.Provenance.Parameters.ResultLabel)
}

// loadProvenance accepts either a bare provenance document or a result
// document written by merge or diff.
func (a *app) loadProvenance(path string) (combine.Provenance, error) {
	if err := a.checkPath(path); err != nil {
		return combine.Provenance{}, err
	}
	data, err := fsutil.ReadLimited(a.fsys, path, fsutil.MaxInputSize)
	if err != nil {
		return combine.Provenance{}, err
	}
	var wrapped struct {
		Provenance json.RawMessage `json:"provenance"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Provenance) > 0 {
		data = wrapped.Provenance
	}
	return combine.ParseProvenance(data)
}
