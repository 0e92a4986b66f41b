package wildfire

import (
	"context"
	"time"

	"wildfire-ca/internal/core"
)

// Observer is called after every step with the mutated grid and front.
// Observers must not retain or mutate either.
type Observer func(step int, g *Grid, f *Front, rep StepReport)

// Options carries the caller's side effects for a run. The zero value runs
// as fast as possible with no observation.
type Options struct {
	Observer Observer
	// Interval is waited after every step, for animation only.
	Interval time.Duration
}

// Result describes a finished run.
type Result struct {
	Steps   int           `json:"nbSteps"`
	Elapsed time.Duration `json:"elapsed"`
}

// Simulate steps the fire until the front is empty. Each step is atomic;
// ctx is only consulted between steps, so a cancelled run stops on a step
// boundary and returns ctx.Err() with the steps completed so far.
func Simulate(ctx context.Context, g *Grid, f *Front, p Params, src Source, opts Options) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	var res Result
	for f.Size() > 0 {
		if err := ctx.Err(); err != nil {
			res.Elapsed = time.Since(start)
			return res, err
		}
		rep := Step(g, f, p, src)
		res.Steps++
		if opts.Observer != nil {
			opts.Observer(res.Steps, g, f, rep)
		}
		if opts.Interval > 0 {
			if err := core.Sleep(ctx, opts.Interval); err != nil {
				res.Elapsed = time.Since(start)
				return res, err
			}
		}
	}
	res.Elapsed = time.Since(start)
	return res, nil
}
