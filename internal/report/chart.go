// Package report writes sweep charts and grid snapshots as PNG files.
package report

import (
	"errors"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"wildfire-ca/internal/experiment"
	"wildfire-ca/internal/results"
)

// ErrTooFewRuns is returned when a sweep has fewer than two runs to plot.
var ErrTooFewRuns = errors.New("report: need at least two runs to chart")

// ChartOptions controls SweepChart. Smoothing is a moving-average window
// applied to an extra burn percentage series; 0 or 1 disables it.
type ChartOptions struct {
	Title     string
	Width     int
	Height    int
	Smoothing int
}

// SweepChart plots burn percentage and step count against the test value
// of every run in res.
func SweepChart(w io.Writer, res *experiment.Results, opts ChartOptions) error {
	if res == nil || len(res.Runs) < 2 {
		return ErrTooFewRuns
	}
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}

	xs := make([]float64, len(res.Runs))
	burn := make([]float64, len(res.Runs))
	steps := make([]float64, len(res.Runs))
	maxSteps := 1.0
	ticks := make([]chart.Tick, len(res.Runs))
	for i, run := range res.Runs {
		xs[i] = run.Value
		burn[i] = run.BurnPercentage
		steps[i] = float64(run.Steps)
		maxSteps = max(maxSteps, steps[i])
		label := ""
		if i < len(res.Labels) {
			label = res.Labels[i]
		}
		ticks[i] = chart.Tick{Value: run.Value, Label: label}
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Burnt %",
			XValues: xs,
			YValues: burn,
			Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 3},
		},
		chart.ContinuousSeries{
			Name:    "Steps",
			YAxis:   chart.YAxisSecondary,
			XValues: xs,
			YValues: steps,
			Style:   chart.Style{StrokeColor: drawing.Color{R: 255, G: 165, B: 0, A: 255}, StrokeWidth: 3},
		},
	}
	if opts.Smoothing > 1 {
		series = append(series, chart.ContinuousSeries{
			Name:    "Burnt % (smoothed)",
			XValues: xs,
			YValues: results.MovingAverage(burn, opts.Smoothing),
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2, StrokeDashArray: []float64{5, 5}},
		})
	}

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Style: chart.Style{FontSize: 10},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Burnt %",
			Style: chart.Style{FontSize: 10},
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		YAxisSecondary: chart.YAxis{
			Name:  "Steps",
			Style: chart.Style{FontSize: 10},
			Range: &chart.ContinuousRange{Min: 0, Max: maxSteps},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// WriteSweepChart renders SweepChart into the file at path.
func WriteSweepChart(path string, res *experiment.Results, opts ChartOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := SweepChart(f, res, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
