// Package terrain builds fire grids from raster map layers or from noise.
package terrain

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"

	"wildfire-ca/internal/sims/wildfire"
)

// ErrUnknownLayer is returned when a layer name has no definition.
var ErrUnknownLayer = errors.New("terrain: unknown layer")

// MatchThreshold is the largest weighted colour distance still classified.
const MatchThreshold = 0.03

// Kind says which cell attribute a layer writes.
type Kind uint8

const (
	KindVegetation Kind = iota
	KindDensity
)

// Mapping pairs a reference map colour with the class it stands for.
type Mapping struct {
	Colour     color.RGBA
	Vegetation wildfire.Vegetation
	Density    wildfire.Density
}

// Layer is one raster map and the colour table used to read it.
type Layer struct {
	Name    string
	Path    string
	Kind    Kind
	Mapping []Mapping
}

var (
	VegetationMapping = []Mapping{
		{Colour: color.RGBA{255, 229, 0, 255}, Vegetation: wildfire.VegetationForest},
		{Colour: color.RGBA{255, 101, 0, 255}, Vegetation: wildfire.VegetationShrubland},
		{Colour: color.RGBA{170, 0, 0, 255}, Vegetation: wildfire.VegetationAgriculture},
	}
	RoadsMapping = []Mapping{
		{Colour: color.RGBA{255, 0, 0, 255}, Vegetation: wildfire.VegetationPrimaryRoad},
		{Colour: color.RGBA{255, 208, 26, 255}, Vegetation: wildfire.VegetationSecondaryRoad},
		{Colour: color.RGBA{62, 255, 62, 255}, Vegetation: wildfire.VegetationTertiaryRoad},
	}
	WaterMapping = []Mapping{
		{Colour: color.RGBA{6, 200, 255, 255}, Vegetation: wildfire.VegetationWaterline},
	}
	// DensityMapping reads a green-scale canopy map, lighter being sparser.
	DensityMapping = []Mapping{
		{Colour: color.RGBA{200, 255, 200, 255}, Density: wildfire.DensitySparse},
		{Colour: color.RGBA{90, 190, 90, 255}, Density: wildfire.DensityNormal},
		{Colour: color.RGBA{0, 90, 0, 255}, Density: wildfire.DensityDense},
	}
)

// DefaultLayers returns the standard layer set with files under dir, keyed by
// layer name.
func DefaultLayers(dir string) map[string]Layer {
	return map[string]Layer{
		"vegetation": {Name: "vegetation", Path: filepath.Join(dir, "vegetation-map.png"), Kind: KindVegetation, Mapping: VegetationMapping},
		"roads":      {Name: "roads", Path: filepath.Join(dir, "roads-map.png"), Kind: KindVegetation, Mapping: RoadsMapping},
		"waterlines": {Name: "waterlines", Path: filepath.Join(dir, "waterlines-map.png"), Kind: KindVegetation, Mapping: WaterMapping},
		"density":    {Name: "density", Path: filepath.Join(dir, "density-map.png"), Kind: KindDensity, Mapping: DensityMapping},
	}
}

// ColourDistance is a luminance-weighted squared distance normalised so that
// black to white is 1. Alpha is ignored.
func ColourDistance(a, b color.RGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return (0.3*dr*dr + 0.59*dg*dg + 0.11*db*db) / 65025
}

// Nearest returns the closest mapping to c and its distance.
func Nearest(c color.RGBA, mapping []Mapping) (Mapping, float64) {
	best, dist := Mapping{}, 1.0
	if len(mapping) > 0 {
		best = mapping[0]
	}
	for _, m := range mapping {
		if d := ColourDistance(c, m.Colour); d < dist {
			best, dist = m, d
		}
	}
	return best, dist
}

// Classify paints g from img, which must already have the grid's size. Every
// pixel close enough to a mapping colour paints a square of the given
// thickness around its cell; other pixels leave the grid untouched.
func Classify(g *wildfire.Grid, img image.Image, layer Layer, thickness int) {
	bounds := img.Bounds()
	for row := 0; row < g.H && row < bounds.Dy(); row++ {
		for col := 0; col < g.W && col < bounds.Dx(); col++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+col, bounds.Min.Y+row)).(color.RGBA)
			m, dist := Nearest(c, layer.Mapping)
			if dist >= MatchThreshold {
				continue
			}
			switch layer.Kind {
			case KindDensity:
				paintDensity(g, row, col, m.Density, thickness)
			default:
				g.PaintRegion(row, col, m.Vegetation, g.At(row, col).Density, thickness)
			}
		}
	}
}

func paintDensity(g *wildfire.Grid, row, col int, dens wildfire.Density, thickness int) {
	for r := max(0, row-thickness+1); r < min(g.H, row+thickness); r++ {
		for c := max(0, col-thickness+1); c < min(g.W, col+thickness); c++ {
			cell := g.At(r, c)
			cell.Density = dens
			g.Set(r, c, cell)
		}
	}
}

// FillNoVegetation turns every unclassified cell into forest.
func FillNoVegetation(g *wildfire.Grid) {
	g.ReplaceVegetation(wildfire.VegetationNone, wildfire.VegetationForest)
}

// Load builds a w by h grid from the given layers, applied in order. Each
// image is resized to the grid before classification.
func Load(w, h int, layers []Layer, thickness int) (*wildfire.Grid, error) {
	g, err := wildfire.NewGrid(w, h, wildfire.VegetationNone, wildfire.DensityNormal)
	if err != nil {
		return nil, err
	}
	for _, layer := range layers {
		img, err := imgio.Open(layer.Path)
		if err != nil {
			return nil, fmt.Errorf("terrain: layer %s: %w", layer.Name, err)
		}
		resized := transform.Resize(img, w, h, transform.NearestNeighbor)
		Classify(g, resized, layer, thickness)
	}
	FillNoVegetation(g)
	return g, nil
}

// LoadNamed resolves layer names against DefaultLayers(dir) and loads them.
func LoadNamed(w, h int, dir string, names []string, thickness int) (*wildfire.Grid, error) {
	known := DefaultLayers(dir)
	layers := make([]Layer, 0, len(names))
	for _, name := range names {
		layer, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, name)
		}
		layers = append(layers, layer)
	}
	return Load(w, h, layers, thickness)
}
