package report

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"

	"wildfire-ca/internal/experiment"
	"wildfire-ca/internal/sims/wildfire"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestSweepChartRendersPNG(t *testing.T) {
	res := &experiment.Results{
		Runs: []experiment.Run{
			{Value: 0, Steps: 12, BurnPercentage: 40},
			{Value: 2, Steps: 18, BurnPercentage: 65},
			{Value: 4, Steps: 25, BurnPercentage: 90},
		},
		Labels: []string{"0 m/s", "2 m/s", "4 m/s"},
	}
	var buf bytes.Buffer
	if err := SweepChart(&buf, res, ChartOptions{Title: "wind speed", Smoothing: 2}); err != nil {
		t.Fatalf("SweepChart: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("output is not a PNG")
	}
}

func TestSweepChartNeedsTwoRuns(t *testing.T) {
	res := &experiment.Results{Runs: []experiment.Run{{Value: 1}}, Labels: []string{"1"}}
	if err := SweepChart(&bytes.Buffer{}, res, ChartOptions{}); !errors.Is(err, ErrTooFewRuns) {
		t.Fatalf("got %v", err)
	}
}

func TestSaveGrid(t *testing.T) {
	g, err := wildfire.NewGrid(4, 3, wildfire.VegetationForest, wildfire.DensityDense)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	f := wildfire.NewFront(g.W)
	if err := wildfire.Ignite(g, f, wildfire.Coord{Row: 1, Col: 1}); err != nil {
		t.Fatalf("Ignite: %v", err)
	}

	path := filepath.Join(t.TempDir(), "grid.png")
	if err := SaveGrid(path, g, f, 2); err != nil {
		t.Fatalf("SaveGrid: %v", err)
	}
	img, err := imgio.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Fatalf("bounds %v", b)
	}

	palette := wildfire.Palette()
	burning := palette[wildfire.EncodeCell(g.At(1, 1), true)]
	if got := GridImage(g, f, 1).RGBAAt(1, 1); got != burning {
		t.Fatalf("burning cell colour %v, want %v", got, burning)
	}
}
