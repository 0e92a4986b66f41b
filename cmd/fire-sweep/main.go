package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"wildfire-ca/internal/config"
	"wildfire-ca/internal/experiment"
	"wildfire-ca/internal/report"
	"wildfire-ca/internal/sims/wildfire"
	"wildfire-ca/internal/terrain"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	path := flag.String("config", "", "path to a wildfire YAML config")
	preset := flag.String("preset", "", "named experiment (exp1, exp2, exp3 or one from the config)")
	variable := flag.String("variable", "windSpeed", "swept variable when no preset is given")
	start := flag.Float64("start", 0, "first value")
	step := flag.Float64("step", 1, "increment between values")
	maxValue := flag.String("max", "", "exclusive upper bound on values (empty for none)")
	iters := flag.Int("iters", experiment.DefaultIterations, "values per page")
	label := flag.String("label", "%s", "label format; %s is replaced by the value")
	layers := flag.String("layers", "", "comma-separated map layers when no preset is given, \"perlin\" for noise")
	width := flag.Int("w", 0, "grid width (0 keeps the preset's)")
	height := flag.Int("h", 0, "grid height (0 keeps the preset's)")
	pages := flag.Int("pages", 1, "pages to run; 0 follows the sweep until it is exhausted")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel runs")
	seed := flag.Int64("seed", 0, "seed for spread draws")
	chartPath := flag.String("chart", "", "write a PNG chart of all pages to this path")
	terrainPath := flag.String("terrain", "", "write a PNG of the terrain to this path")
	var overrides kvList
	flag.Var(&overrides, "set", "parameter override in key=value form (repeatable)")
	flag.Parse()

	file := config.Default()
	if *path != "" {
		var err error
		if file, err = config.FromYaml(*path); err != nil {
			log.Fatal(err)
		}
	}

	p, err := resolvePreset(file, *preset, config.Experiment{
		Name:        "cli",
		Variable:    *variable,
		Start:       *start,
		Step:        *step,
		NbIters:     *iters,
		LabelFormat: *label,
		Maps:        splitLayers(*layers),
	}, *maxValue)
	if err != nil {
		log.Fatal(err)
	}
	if *width > 0 {
		p.Width = *width
	}
	if *height > 0 {
		p.Height = *height
	}
	p.Config.Workers = *workers
	if *seed != 0 {
		p.Config.Seed = *seed
	}
	for _, kv := range overrides {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			log.Fatalf("override %q: want key=value", kv)
		}
		applyOverride(&p.Config.Params, parts[0], parts[1])
	}
	if *pages <= 0 && !p.Config.HasMax {
		log.Fatal("-pages 0 needs a sweep with a maximum")
	}

	base, err := terrain.Build(p.Width, p.Height, terrain.Source{
		Dir:        file.Maps.Dir,
		Layers:     p.Layers,
		Thickness:  file.Maps.Thickness,
		Seed:       file.Sim.Seed,
		Vegetation: wildfire.VegetationForest,
		Density:    wildfire.DensityNormal,
	})
	if err != nil {
		log.Fatal(err)
	}
	if *terrainPath != "" {
		if err := report.SaveGrid(*terrainPath, base, nil, 1); err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Sweeping %s on %dx%d (%d workers, layers %v)\n",
		p.Config.Target.Name(), p.Width, p.Height, p.Config.Workers, p.Layers)

	all := &experiment.Results{}
	began := time.Now()
	for page := 0; *pages <= 0 || page < *pages; page++ {
		res, err := experiment.Sweep(ctx, base, p.Config)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			log.Fatal(err)
		}
		for i, run := range res.Runs {
			fmt.Printf("%-12s steps %5d  burnt %6.2f%%  %s\n",
				res.Labels[i], run.Steps, run.BurnPercentage, centroid(run))
		}
		all.Runs = append(all.Runs, res.Runs...)
		all.Labels = append(all.Labels, res.Labels...)
		all.Next = res.Next
		if res.Next == nil {
			break
		}
		p.Config.Start = *res.Next
	}
	fmt.Printf("%d runs in %s\n", len(all.Runs), time.Since(began).Round(time.Millisecond))
	if all.Next != nil {
		fmt.Printf("Next page starts at %s\n", strconv.FormatFloat(*all.Next, 'f', -1, 64))
	}

	if *chartPath != "" {
		opts := report.ChartOptions{Title: p.Name, Smoothing: 3}
		if err := report.WriteSweepChart(*chartPath, all, opts); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Chart written to %s\n", *chartPath)
	}
}

// resolvePreset picks the named experiment, or turns the CLI flags into one.
func resolvePreset(file *config.File, name string, cli config.Experiment, maxValue string) (experiment.Preset, error) {
	if name != "" {
		return file.Experiment(name)
	}
	if maxValue != "" {
		v, err := strconv.ParseFloat(maxValue, 64)
		if err != nil {
			return experiment.Preset{}, fmt.Errorf("-max: %w", err)
		}
		cli.Max = &v
	}
	if cli.Maps == nil {
		cli.Maps = []string{}
	}
	return cli.Preset()
}

func splitLayers(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func applyOverride(p *wildfire.Params, key, raw string) {
	if v, err := strconv.Atoi(raw); err == nil && wildfire.SetIntParam(p, key, v) {
		return
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("override %s=%s: %v", key, raw, err)
	}
	if !wildfire.SetFloatParam(p, key, v) {
		log.Fatalf("override %s=%s: unknown or invalid parameter", key, raw)
	}
}

func centroid(run experiment.Run) string {
	if run.Centroid == nil {
		return "no burn"
	}
	return fmt.Sprintf("centre (%.1f, %.1f)", run.Centroid.Row, run.Centroid.Col)
}
