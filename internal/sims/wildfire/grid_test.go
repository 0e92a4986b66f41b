package wildfire

import (
	"testing"

	"wildfire-ca/internal/core"
)

func TestPaintRegionClampsAndResets(t *testing.T) {
	g := mustGrid(t, 5, 4)
	g.Set(0, 0, Cell{Vegetation: VegetationForest, Density: DensityNormal, BurnDegree: 1})

	g.PaintRegion(0, 0, VegetationWaterline, DensitySparse, 2)

	for r := 0; r < g.H; r++ {
		for c := 0; c < g.W; c++ {
			cell := g.At(r, c)
			painted := r <= 1 && c <= 1
			if painted && (cell.Vegetation != VegetationWaterline || cell.Density != DensitySparse) {
				t.Fatalf("cell (%d,%d)=%+v, expected painted", r, c, cell)
			}
			if !painted && cell.Vegetation != VegetationForest {
				t.Fatalf("cell (%d,%d)=%+v, expected untouched", r, c, cell)
			}
		}
	}
	if g.At(0, 0).BurnDegree != 0 {
		t.Fatal("paint must reset burn degree")
	}
}

func TestPaintRegionSideLength(t *testing.T) {
	g := mustGrid(t, 9, 9)
	g.PaintRegion(4, 4, VegetationAgriculture, DensityDense, 3)
	painted := 0
	for _, c := range g.Cells() {
		if c.Vegetation == VegetationAgriculture {
			painted++
		}
	}
	if painted != 25 {
		t.Fatalf("painted=%d, expected 5x5=25", painted)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := mustGrid(t, 3, 3)
	clone := g.Clone()
	clone.Set(1, 1, Cell{Vegetation: VegetationNone, BurnDegree: 1})
	if g.At(1, 1).Vegetation != VegetationForest || g.At(1, 1).BurnDegree != 0 {
		t.Fatal("mutating clone changed original")
	}
}

func TestFrontValueIdentity(t *testing.T) {
	f := NewFront(10)
	if !f.Ignite(Coord{Row: 2, Col: 3}) {
		t.Fatal("first ignite should insert")
	}
	if f.Ignite(Coord{Row: 2, Col: 3}) {
		t.Fatal("duplicate ignite should be a no-op")
	}
	snap := f.Snapshot()
	f.Ignite(Coord{Row: 4, Col: 4})
	if len(snap) != 1 {
		t.Fatalf("snapshot changed with front: %v", snap)
	}
	if !f.Extinguish(Coord{Row: 2, Col: 3}) {
		t.Fatal("extinguish by equal value should remove")
	}
	if f.Extinguish(Coord{Row: 2, Col: 3}) {
		t.Fatal("second extinguish should be a no-op")
	}
	if f.Size() != 1 || !f.Contains(Coord{Row: 4, Col: 4}) {
		t.Fatalf("front=%v, expected [(4,4)]", f.Snapshot())
	}
}

func TestFromMapOverrides(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":                    "40",
		"h":                    "-3",
		"wind_speed":           "3.5",
		"wind_dir":             "90",
		"max_burn":             "2",
		"veg_weight.Waterline": "-1",
		"vegetation":           "shrubland",
		"ignite_row":           "1",
		"ignite_col":           "2",
	})
	if cfg.Width != 40 || cfg.Height != DefaultConfig().Height {
		t.Fatalf("dims=%dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Params.WindSpeed != 3.5 || cfg.Params.MaxBurn != 2 {
		t.Fatalf("params=%+v", cfg.Params)
	}
	if got := RadToDeg(cfg.Params.WindDir); got < 89.999 || got > 90.001 {
		t.Fatalf("wind dir=%v deg, expected 90", got)
	}
	if cfg.Params.VegWeights[VegetationWaterline] != -1 {
		t.Fatalf("waterline weight=%v", cfg.Params.VegWeights[VegetationWaterline])
	}
	if cfg.Vegetation != VegetationShrubland {
		t.Fatalf("vegetation=%v", cfg.Vegetation)
	}
	if !cfg.HasIgnition || cfg.Ignition != (Coord{Row: 1, Col: 2}) {
		t.Fatalf("ignition=%+v has=%v", cfg.Ignition, cfg.HasIgnition)
	}
}

func TestWorldRunsToCompletion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 16
	cfg.Height = 12
	cfg.Params.BaseProb = 1
	cfg.Params.VegWeights = VegetationWeights{}
	world := NewWithConfig(cfg)

	if world.Done() {
		t.Fatal("fresh world should be burning")
	}
	for i := 0; i < cfg.Width*cfg.Height && !world.Done(); i++ {
		world.Step()
	}
	if !world.Done() {
		t.Fatal("world did not burn out")
	}
	for i, v := range world.Cells() {
		if v != displayAsh {
			t.Fatalf("cell %d display=%d, expected ash", i, v)
		}
	}

	world.Reset(0)
	if world.Steps() != 0 || world.Front().Size() != 1 {
		t.Fatalf("reset steps=%d front=%d", world.Steps(), world.Front().Size())
	}
	if !world.SetFloatParameter("wind_speed", 2) || world.Params().WindSpeed != 2 {
		t.Fatal("wind speed setter failed")
	}
	if world.SetFloatParameter("unknown", 1) {
		t.Fatal("unknown key accepted")
	}
}

func TestRegisteredFactory(t *testing.T) {
	f, err := core.Lookup("wildfire")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	sim := f(map[string]string{"w": "5", "h": "4"})
	if s := sim.Size(); s.W != 5 || s.H != 4 {
		t.Fatalf("size = %+v", s)
	}
	if len(sim.Cells()) != 20 || len(sim.Palette()) == 0 {
		t.Fatalf("display buffer %d cells, palette %d", len(sim.Cells()), len(sim.Palette()))
	}
}
