package terrain

import (
	"github.com/aquilax/go-perlin"

	"wildfire-ca/internal/sims/wildfire"
)

const (
	noiseAlpha  = 2
	noiseBeta   = 2
	noiseOctave = 3
	noiseScale  = 0.04
)

// Generate returns a w by h grid whose vegetation and density follow two
// independent Perlin fields. The same seed always gives the same terrain.
func Generate(w, h int, seed int64) (*wildfire.Grid, error) {
	g, err := wildfire.NewGrid(w, h, wildfire.VegetationForest, wildfire.DensityNormal)
	if err != nil {
		return nil, err
	}
	veg := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed)
	dens := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed+1)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			x, y := float64(col)*noiseScale, float64(row)*noiseScale
			g.Set(row, col, wildfire.Cell{
				Vegetation: vegetationAt(veg.Noise2D(x, y)),
				Density:    densityAt(dens.Noise2D(x, y)),
			})
		}
	}
	return g, nil
}

func vegetationAt(n float64) wildfire.Vegetation {
	switch {
	case n < -0.45:
		return wildfire.VegetationWaterline
	case n < -0.2:
		return wildfire.VegetationAgriculture
	case n < 0.25:
		return wildfire.VegetationForest
	default:
		return wildfire.VegetationShrubland
	}
}

func densityAt(n float64) wildfire.Density {
	switch {
	case n < -0.25:
		return wildfire.DensitySparse
	case n < 0.25:
		return wildfire.DensityNormal
	default:
		return wildfire.DensityDense
	}
}

// ProceduralLayer selects Perlin terrain instead of raster maps.
const ProceduralLayer = "perlin"

// Source says where a grid's terrain comes from.
type Source struct {
	Dir       string
	Layers    []string
	Thickness int
	Seed      int64

	// Fill is used for every cell when Layers is empty.
	Vegetation wildfire.Vegetation
	Density    wildfire.Density
}

// Build returns a w*h grid from src: uniform when no layers are named,
// Perlin noise for the single layer "perlin", raster maps otherwise.
func Build(w, h int, src Source) (*wildfire.Grid, error) {
	switch {
	case len(src.Layers) == 0:
		return wildfire.NewGrid(w, h, src.Vegetation, src.Density)
	case len(src.Layers) == 1 && src.Layers[0] == ProceduralLayer:
		return Generate(w, h, src.Seed)
	default:
		return LoadNamed(w, h, src.Dir, src.Layers, max(1, src.Thickness))
	}
}
