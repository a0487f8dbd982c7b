package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/banshee-data/series.align/internal/combine"
	"github.com/banshee-data/series.align/internal/config"
	"github.com/banshee-data/series.align/internal/dataset"
	"github.com/banshee-data/series.align/internal/fsutil"
	"github.com/banshee-data/series.align/internal/monitoring"
	"github.com/banshee-data/series.align/internal/paramkey"
	"github.com/banshee-data/series.align/internal/security"
	"github.com/banshee-data/series.align/internal/series"
	"github.com/banshee-data/series.align/internal/sparse"
	"github.com/banshee-data/series.align/internal/version"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks errors that should print usage and exit 2.
var errUsage = errors.New("usage error")

// app is the state shared by every subcommand.
type app struct {
	fsys     fsutil.FileSystem
	stdout   io.Writer
	stderr   io.Writer
	cfg      *config.EngineConfig
	resolver *paramkey.Resolver
	roots    []string
}

// output is the JSON document every subcommand writes.
type output struct {
	Dataset     *dataset.Dataset        `json:"dataset,omitempty"`
	Provenance  *combine.Provenance     `json:"provenance,omitempty"`
	Scenario    *sparse.Scenario        `json:"scenario,omitempty"`
	Resolved    *paramkey.Match         `json:"resolved,omitempty"`
	Diagnostics []monitoring.Diagnostic `json:"diagnostics"`
}

func run(args []string, stdout, stderr io.Writer, fsys fsutil.FileSystem) int {
	global := flag.NewFlagSet("seriesalign", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { printUsage(stderr) }
	configPath := global.String("config", "", "Engine config JSON (defaults apply when unset)")
	roots := global.String("root", "", "Comma-separated directories all input and output paths must stay within")
	quiet := global.Bool("quiet", false, "Do not log diagnostics to stderr")
	showVersion := global.Bool("version", false, "Print version and exit")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}
	if global.NArg() < 1 {
		printUsage(stderr)
		return exitUsage
	}

	if *quiet {
		monitoring.SetLogger(nil)
	} else {
		monitoring.SetLogger(log.New(stderr, "seriesalign: ", 0).Printf)
	}

	a := &app{fsys: fsys, stdout: stdout, stderr: stderr, cfg: config.DefaultEngineConfig()}
	for _, r := range strings.Split(*roots, ",") {
		if r = strings.TrimSpace(r); r != "" {
			a.roots = append(a.roots, r)
		}
	}
	if *configPath != "" {
		cfg, err := a.loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		a.cfg = cfg
	}
	a.resolver = paramkey.New(a.cfg.GetParameterAliases())

	command, rest := global.Arg(0), global.Args()[1:]
	var err error
	switch command {
	case "merge":
		err = a.handleMerge(rest)
	case "diff":
		err = a.handleDiff(rest)
	case "round":
		err = a.handleRound(rest)
	case "detect":
		err = a.handleDetect(rest)
	case "smooth":
		err = a.handleSmooth(rest)
	case "resolve":
		err = a.handleResolve(rest)
	case "recompute":
		err = a.handleRecompute(rest)
	case "version":
		fmt.Fprintln(stdout, version.String())
	case "help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `seriesalign - align, merge and subtract time series

Usage: seriesalign [global flags] <command> [options]

Commands:
  merge      Merge two parameters onto the union of their timestamps
  diff       Subtract one parameter from another
  round      Re-bucket a dataset to a granularity and trim to the overlap
  detect     Report whether one of two columns is sparse
  smooth     Spline the sparse column onto the dense column's timestamps
  resolve    Resolve a display name to a dataset column
  recompute  Rebuild a result from saved provenance and fresh inputs
  version    Show version
  help       Show this help message

Global Flags:
  -config <file>   Engine config JSON
  -root <dirs>     Restrict file access to these directories
  -quiet           Do not log diagnostics

Examples:
  seriesalign merge -a gp.json -a-param "Wave Height" -b fpod.json -b-param "Wind Speed" -round 1hr -smooth
  seriesalign diff -a gp.json -a-param Temp -b fpod.json -b-param Temp -direction b-a -missing zero
  seriesalign recompute -provenance result.json -a gp.json -b fpod.json`)
}

func usagef(format string, v ...interface{}) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, v...))
}

// newFlagSet returns a subcommand flag set that reports errors instead of
// exiting.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return usagef("unexpected arguments: %v", fs.Args())
	}
	return nil
}

func (a *app) checkPath(path string) error {
	if len(a.roots) == 0 {
		return nil
	}
	return security.ValidatePathWithinAllowedDirs(path, a.roots)
}

// loadConfig reads the engine config through the same filesystem and root
// checks as every other input.
func (a *app) loadConfig(path string) (*config.EngineConfig, error) {
	if err := a.checkPath(path); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return config.LoadEngineConfigFS(a.fsys, path)
}

func (a *app) loadDataset(path string) (*dataset.Dataset, error) {
	if path == "" {
		return nil, usagef("missing dataset path")
	}
	if err := a.checkPath(path); err != nil {
		return nil, err
	}
	ds := &dataset.Dataset{}
	if err := fsutil.ReadJSON(a.fsys, path, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// operand is one side of a merge or difference as given on the command line.
type operand struct {
	name   string
	path   string
	param  string
	source string
	id     string
	axis   string
}

func (o *operand) register(fs *flag.FlagSet, name string) {
	o.name = name
	fs.StringVar(&o.path, name, "", "Dataset JSON for series "+name)
	fs.StringVar(&o.param, name+"-param", "", "Parameter display name for series "+name)
	fs.StringVar(&o.source, name+"-source", "", "Source label (defaults to the file name)")
	fs.StringVar(&o.id, name+"-id", "", "Series ID recorded in provenance (random when unset)")
	fs.StringVar(&o.axis, name+"-axis", "", "Chart axis, left or right (a defaults to left, b to right)")
}

func (o *operand) sourceLabel() string {
	if o.source != "" {
		return o.source
	}
	return strings.TrimSuffix(filepath.Base(o.path), filepath.Ext(o.path))
}

func (o *operand) selection() combine.Selection {
	return combine.Selection{SeriesID: o.id, SourceID: o.path, VisibleParameters: []string{o.param}}
}

// load reads the operand's dataset, resolves its parameter to a column and
// extracts the series.
func (a *app) load(o *operand) (series.Series, []monitoring.Diagnostic, error) {
	if o.param == "" {
		return series.Series{}, nil, usagef("-%s-param is required", o.name)
	}
	axis := series.AxisLeft
	if o.name == "b" {
		axis = series.AxisRight
	}
	if o.axis != "" {
		parsed, err := series.ParseAxis(o.axis)
		if err != nil {
			return series.Series{}, nil, usagef("%v", err)
		}
		axis = parsed
	}
	ds, err := a.loadDataset(o.path)
	if err != nil {
		return series.Series{}, nil, fmt.Errorf("series %s: %w", o.name, err)
	}
	column, diags := a.resolver.ResolveColumn(ds, o.param)
	ref := series.ParameterRef{
		DisplayName: o.param,
		SourceLabel: o.sourceLabel(),
		SourceID:    o.path,
		Axis:        axis,
	}
	s, more := ds.ExtractSeries(column, ref)
	if o.id != "" {
		s.ID = o.id
	}
	return s, append(diags, more...), nil
}

// emit reports diagnostics and writes out to -out, into -out-dir, or to
// stdout.
func (a *app) emit(out output, outPath, outDir, label string) error {
	monitoring.Report(out.Diagnostics)
	if out.Diagnostics == nil {
		out.Diagnostics = []monitoring.Diagnostic{}
	}

	if outPath == "" && outDir != "" {
		outPath = filepath.Join(outDir, security.SanitizeFilename(label)+".json")
	}
	if outPath == "" {
		return writeJSON(a.stdout, out)
	}
	if err := a.checkPath(outPath); err != nil {
		return err
	}
	if err := fsutil.WriteJSON(a.fsys, outPath, out); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, outPath)
	return nil
}
