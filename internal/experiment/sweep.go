// Package experiment runs batches of independent fire simulations that vary
// one parameter and summarises each run.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/results"
	"wildfire-ca/internal/sims/wildfire"
)

// ErrDegenerateSweep is returned for sweeps that cannot make progress, such
// as a bounded sweep with a non-positive step.
var ErrDegenerateSweep = errors.New("experiment: degenerate sweep")

// DefaultIterations is used when a config leaves Iterations at zero.
const DefaultIterations = 5

// Config describes one page of a sweep.
type Config struct {
	Target Target

	Start      float64
	Step       float64
	Iterations int
	// Max is an exclusive bound on test values when HasMax is set.
	Max    float64
	HasMax bool

	// LabelFormat replaces the first %s with the rounded test value. Empty
	// uses the target's default.
	LabelFormat string

	// Params is the shared base; every run works on its own copy.
	Params wildfire.Params

	Ignition    wildfire.Coord
	HasIgnition bool

	Seed    int64
	Workers int
}

// Run summarises one simulation of a sweep.
type Run struct {
	Value             float64                  `json:"value"`
	Steps             int                      `json:"nbSteps"`
	BurnPercentage    float64                  `json:"burnPerc"`
	BurntByVegetation []results.VegetationBurn `json:"burnPercByVegType"`
	// Centroid is nil when nothing burnt.
	Centroid *results.Point `json:"fireCentre"`
	Elapsed  time.Duration  `json:"elapsed"`
}

// Results holds one page of sweep output. Next is the start value of the
// following page, or nil once the sweep has reached its maximum.
type Results struct {
	Runs   []Run    `json:"runs"`
	Labels []string `json:"labels"`
	Next   *float64 `json:"nextExp,omitempty"`
}

// Values returns the test values of the page described by cfg and the start
// of the next page, nil when the sweep is complete.
func Values(cfg Config) ([]float64, *float64, error) {
	n := cfg.Iterations
	if n == 0 {
		n = DefaultIterations
	}
	if n < 0 {
		return nil, nil, fmt.Errorf("%w: %d iterations", ErrDegenerateSweep, n)
	}
	if cfg.HasMax && cfg.Step <= 0 {
		return nil, nil, fmt.Errorf("%w: step %v with maximum %v", ErrDegenerateSweep, cfg.Step, cfg.Max)
	}
	tol := 1e-9 * math.Max(1, math.Abs(cfg.Max))
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v := cfg.Start + cfg.Step*float64(i)
		if cfg.HasMax && v >= cfg.Max-tol {
			break
		}
		values = append(values, v)
	}
	next := cfg.Start + cfg.Step*float64(n)
	if cfg.HasMax && next >= cfg.Max-tol {
		return values, nil, nil
	}
	return values, &next, nil
}

// Label formats v with the config's label format.
func Label(format string, v float64) string {
	rounded := math.Round(v*100) / 100
	if rounded == 0 {
		rounded = 0
	}
	return strings.Replace(format, "%s", strconv.FormatFloat(rounded, 'f', -1, 64), 1)
}

// Sweep runs one simulation per test value, each on its own clone of base and
// its own copy of the parameters. Runs execute concurrently, bounded by
// cfg.Workers. Cancelling ctx stops remaining runs.
func Sweep(ctx context.Context, base *wildfire.Grid, cfg Config) (*Results, error) {
	if cfg.Target == nil {
		return nil, fmt.Errorf("%w: none given", ErrUnknownTarget)
	}
	values, next, err := Values(cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	at := wildfire.Center(base)
	if cfg.HasIgnition {
		at = cfg.Ignition
	}
	if !base.InBounds(at.Row, at.Col) {
		return nil, fmt.Errorf("%w: ignition (%d,%d)", wildfire.ErrOutOfBounds, at.Row, at.Col)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	format := cfg.LabelFormat
	if format == "" {
		format = cfg.Target.Label()
	}

	out := &Results{
		Runs:   make([]Run, len(values)),
		Labels: make([]string, len(values)),
		Next:   next,
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, v := range values {
		out.Labels[i] = Label(format, v)
		group.Go(func() error {
			run, err := runOne(groupCtx, base, cfg, at, v)
			if err != nil {
				return fmt.Errorf("run %s: %w", out.Labels[i], err)
			}
			out.Runs[i] = run
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func runOne(ctx context.Context, base *wildfire.Grid, cfg Config, at wildfire.Coord, value float64) (Run, error) {
	grid := base.Clone()
	grid.ClearBurn()
	params := cfg.Params
	cfg.Target.Set(&params, value)

	front := wildfire.NewFront(grid.W)
	if err := wildfire.Ignite(grid, front, at); err != nil {
		return Run{}, err
	}
	rng := core.NewRNG(cfg.Seed ^ int64(math.Float64bits(value)))
	res, err := wildfire.Simulate(ctx, grid, front, params, rng, wildfire.Options{})
	if err != nil {
		return Run{}, err
	}

	run := Run{
		Value:             value,
		Steps:             res.Steps,
		BurnPercentage:    results.BurnPercentage(grid),
		BurntByVegetation: results.BurntByVegetation(grid),
		Elapsed:           res.Elapsed,
	}
	if centroid, err := results.Centroid(grid); err == nil {
		run.Centroid = &centroid
	}
	return run, nil
}
