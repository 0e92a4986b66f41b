package wildfire

import (
	"context"
	"errors"
	"math"
	"testing"

	"wildfire-ca/internal/core"
)

// fixedSource always returns the same draw.
type fixedSource float64

func (s fixedSource) Float64() float64 { return float64(s) }

func neutralParams() Params {
	return Params{BaseProb: 1, C1: DefaultC1, C2: DefaultC2, MaxBurn: 1}
}

func mustGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := NewGrid(w, h, VegetationForest, DensityNormal)
	if err != nil {
		t.Fatalf("NewGrid(%d,%d): %v", w, h, err)
	}
	return g
}

func ignitedCount(g *Grid) int {
	n := 0
	for _, c := range g.Cells() {
		if c.Ignited() {
			n++
		}
	}
	return n
}

func TestNewGridRejectsInvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}} {
		if _, err := NewGrid(dims[0], dims[1], VegetationForest, DensityNormal); !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("NewGrid(%d,%d) err=%v, expected ErrInvalidDimension", dims[0], dims[1], err)
		}
	}
}

func TestNewGridRejectsOverflowingArea(t *testing.T) {
	if _, err := NewGrid(math.MaxInt/2+1, 2, VegetationForest, DensityNormal); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("overflowing area err=%v, expected ErrInvalidDimension", err)
	}
	// 1<<32 where int is 64 bits.
	if side := math.MaxInt>>31 + 1; side > 1 {
		if _, err := NewGrid(side, side, VegetationForest, DensityNormal); !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("2^32 square err=%v, expected ErrInvalidDimension", err)
		}
	}

	w := NewWithConfig(FromMap(map[string]string{"w": "4294967296", "h": "4294967296"}))
	if s := w.Size(); s.W*s.H != len(w.Grid().Cells()) || s.W <= 0 {
		t.Fatalf("world size %+v with %d cells", s, len(w.Grid().Cells()))
	}
	if err := w.Reignite(Center(w.Grid())); err != nil {
		t.Fatalf("Reignite: %v", err)
	}
}

func TestFiveByFiveFullBurn(t *testing.T) {
	g := mustGrid(t, 5, 5)
	f := NewFront(g.W)
	if err := Ignite(g, f, Coord{Row: 2, Col: 2}); err != nil {
		t.Fatal(err)
	}
	p := neutralParams()
	src := fixedSource(0.5)

	rep := Step(g, f, p, src)
	if rep.Ignited != 8 || f.Size() != 8 {
		t.Fatalf("step 1 ignited=%d front=%d, expected 8/8", rep.Ignited, f.Size())
	}
	if f.Contains(Coord{Row: 2, Col: 2}) {
		t.Fatal("centre should be extinguished after step 1")
	}

	rep = Step(g, f, p, src)
	if rep.Ignited != 16 || rep.BurntOut != 8 || f.Size() != 16 {
		t.Fatalf("step 2 ignited=%d burntOut=%d front=%d, expected 16/8/16", rep.Ignited, rep.BurntOut, f.Size())
	}

	rep = Step(g, f, p, src)
	if f.Size() != 0 || rep.Ignited != 0 {
		t.Fatalf("step 3 front=%d ignited=%d, expected empty front", f.Size(), rep.Ignited)
	}
	if got := ignitedCount(g); got != 25 {
		t.Fatalf("ignited cells=%d, expected 25", got)
	}
}

func TestSimulateStepCount(t *testing.T) {
	g := mustGrid(t, 5, 5)
	f := NewFront(g.W)
	if err := Ignite(g, f, Center(g)); err != nil {
		t.Fatal(err)
	}
	res, err := Simulate(context.Background(), g, f, neutralParams(), fixedSource(0.5), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 3 {
		t.Fatalf("steps=%d, expected 3", res.Steps)
	}
}

func TestSingleCellGrid(t *testing.T) {
	g := mustGrid(t, 1, 1)
	f := NewFront(g.W)
	if err := Ignite(g, f, Coord{}); err != nil {
		t.Fatal(err)
	}
	res, err := Simulate(context.Background(), g, f, neutralParams(), fixedSource(0), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 1 {
		t.Fatalf("steps=%d, expected 1", res.Steps)
	}
	if !g.At(0, 0).Ignited() {
		t.Fatal("single cell should have burnt")
	}
}

func TestIgniteOutOfBounds(t *testing.T) {
	g := mustGrid(t, 4, 3)
	f := NewFront(g.W)
	for _, at := range []Coord{{Row: -1, Col: 0}, {Row: 3, Col: 0}, {Row: 0, Col: 4}} {
		if err := Ignite(g, f, at); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Ignite(%v) err=%v, expected ErrOutOfBounds", at, err)
		}
	}
	if f.Size() != 0 {
		t.Fatal("front must stay empty after rejected ignition")
	}
}

func TestIgniteResetsPreviousFire(t *testing.T) {
	g := mustGrid(t, 6, 6)
	f := NewFront(g.W)
	if err := Ignite(g, f, Coord{Row: 1, Col: 1}); err != nil {
		t.Fatal(err)
	}
	if err := Ignite(g, f, Coord{Row: 4, Col: 4}); err != nil {
		t.Fatal(err)
	}
	if g.At(1, 1).BurnDegree != 0 {
		t.Fatal("previous ignition point should be unburnt again")
	}
	if f.Size() != 1 || !f.Contains(Coord{Row: 4, Col: 4}) {
		t.Fatalf("front=%v, expected only (4,4)", f.Snapshot())
	}
}

func TestNoSpreadWithZeroBaseProbability(t *testing.T) {
	g := mustGrid(t, 9, 9)
	f := NewFront(g.W)
	if err := Ignite(g, f, Center(g)); err != nil {
		t.Fatal(err)
	}
	p := DefaultParams()
	p.BaseProb = 0
	p.MaxBurn = 2
	if _, err := Simulate(context.Background(), g, f, p, core.NewRNG(7), Options{}); err != nil {
		t.Fatal(err)
	}
	if got := ignitedCount(g); got != 1 {
		t.Fatalf("ignited=%d, expected only the seed", got)
	}
}

func TestWindEffectNeutralWithoutWind(t *testing.T) {
	p := DefaultParams()
	for _, dir := range []float64{0, 0.7, math.Pi, -2.1} {
		p.WindDir = dir
		for _, n := range Neighbors {
			if got := WindEffect(p, n.Angle); got != 1 {
				t.Fatalf("WindEffect(dir=%v, angle=%v)=%v, expected 1", dir, n.Angle, got)
			}
		}
	}
}

func TestWindFavoursDownwindNeighbor(t *testing.T) {
	p := DefaultParams()
	p.WindSpeed = 5
	p.WindDir = 0
	with := WindEffect(p, 0)
	against := WindEffect(p, math.Pi)
	if with <= 1 || against >= 1 {
		t.Fatalf("with=%v against=%v, expected >1 and <1", with, against)
	}
}

func TestIgnitionProbabilityComposition(t *testing.T) {
	p := DefaultParams()
	cell := Cell{Vegetation: VegetationForest, Density: DensityDense}
	want := DefaultBaseProb * 1.4 * 1.3
	if got := IgnitionProbability(p, cell, 0); math.Abs(got-want) > 1e-12 {
		t.Fatalf("probability=%v, expected %v", got, want)
	}
	bare := Cell{Vegetation: VegetationNone, Density: DensityNormal}
	if got := IgnitionProbability(p, bare, 0); got != 0 {
		t.Fatalf("bare ground probability=%v, expected 0", got)
	}
}

func TestMonotonicBurnAndFrontierInvariant(t *testing.T) {
	g := mustGrid(t, 24, 18)
	g.PaintRegion(5, 5, VegetationShrubland, DensityDense, 3)
	g.PaintRegion(12, 16, VegetationWaterline, DensitySparse, 2)
	f := NewFront(g.W)
	if err := Ignite(g, f, Center(g)); err != nil {
		t.Fatal(err)
	}
	p := DefaultParams()
	p.MaxBurn = 3
	p.WindSpeed = 4
	p.BaseProb = 0.6

	prev := make([]uint8, len(g.Cells()))
	for i, c := range g.Cells() {
		prev[i] = c.BurnDegree
	}
	left := make(map[Coord]bool)

	observer := func(step int, g *Grid, f *Front, _ StepReport) {
		for i, c := range g.Cells() {
			at := Coord{Row: i / g.W, Col: i % g.W}
			if c.BurnDegree < prev[i] {
				t.Fatalf("step %d: cell %v burn decreased %d -> %d", step, at, prev[i], c.BurnDegree)
			}
			if left[at] && c.BurnDegree != prev[i] {
				t.Fatalf("step %d: burnt out cell %v changed", step, at)
			}
			if int(c.BurnDegree) > p.MaxBurn {
				t.Fatalf("step %d: cell %v burn %d exceeds max", step, at, c.BurnDegree)
			}
			on := f.Contains(at)
			if on && c.BurnDegree == 0 {
				t.Fatalf("step %d: unburnt cell %v on front", step, at)
			}
			if !on && c.BurnDegree > 0 && int(c.BurnDegree) < p.MaxBurn {
				t.Fatalf("step %d: active cell %v missing from front", step, at)
			}
			if !on && c.BurnDegree > 0 {
				left[at] = true
			}
			prev[i] = c.BurnDegree
		}
	}

	res, err := Simulate(context.Background(), g, f, p, core.NewRNG(99), Options{Observer: observer})
	if err != nil {
		t.Fatal(err)
	}
	if limit := g.W * g.H * p.MaxBurn; res.Steps > limit {
		t.Fatalf("steps=%d exceeds bound %d", res.Steps, limit)
	}
}

func TestSnapshotOrdering(t *testing.T) {
	g := mustGrid(t, 7, 1)
	f := NewFront(g.W)
	if err := Ignite(g, f, Coord{Row: 0, Col: 0}); err != nil {
		t.Fatal(err)
	}
	p := neutralParams()
	p.MaxBurn = 2
	for step := 1; step <= 3; step++ {
		Step(g, f, p, fixedSource(0))
		// Fire moves exactly one column per step along a 1-row strip.
		if !g.At(0, step).Ignited() {
			t.Fatalf("step %d: column %d should be ignited", step, step)
		}
		if g.At(0, step).BurnDegree != 1 {
			t.Fatalf("step %d: newly ignited cell processed in same step (burn=%d)", step, g.At(0, step).BurnDegree)
		}
		if step+1 < g.W && g.At(0, step+1).Ignited() {
			t.Fatalf("step %d: fire jumped to column %d", step, step+1)
		}
	}
}

func TestSimulateValidatesMaxBurn(t *testing.T) {
	g := mustGrid(t, 3, 3)
	f := NewFront(g.W)
	_ = Ignite(g, f, Center(g))
	p := neutralParams()
	p.MaxBurn = 0
	if _, err := Simulate(context.Background(), g, f, p, fixedSource(0), Options{}); !errors.Is(err, ErrInvalidMaxBurn) {
		t.Fatalf("err=%v, expected ErrInvalidMaxBurn", err)
	}
}

func TestSimulateStopsOnCancel(t *testing.T) {
	g := mustGrid(t, 50, 50)
	f := NewFront(g.W)
	_ = Ignite(g, f, Center(g))
	ctx, cancel := context.WithCancel(context.Background())
	observer := func(step int, _ *Grid, _ *Front, _ StepReport) {
		if step == 2 {
			cancel()
		}
	}
	res, err := Simulate(ctx, g, f, neutralParams(), fixedSource(0), Options{Observer: observer})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, expected context.Canceled", err)
	}
	if res.Steps != 2 {
		t.Fatalf("steps=%d, expected 2", res.Steps)
	}
}
