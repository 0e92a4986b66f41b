package wildfire

import (
	"strconv"
	"strings"
)

// Vegetation enumerates the land cover classes a cell can carry.
type Vegetation uint8

// Density enumerates how thickly a cell's vegetation grows.
type Density uint8

const (
	VegetationNone Vegetation = iota
	VegetationAgriculture
	VegetationForest
	VegetationShrubland
	VegetationPrimaryRoad
	VegetationSecondaryRoad
	VegetationTertiaryRoad
	VegetationWaterline

	// NumVegetation is the number of vegetation classes.
	NumVegetation = int(VegetationWaterline) + 1
)

const (
	DensityNone Density = iota
	DensitySparse
	DensityNormal
	DensityDense

	// NumDensity is the number of density classes.
	NumDensity = int(DensityDense) + 1
)

var vegetationNames = [NumVegetation]string{
	"None",
	"Agriculture",
	"Forest",
	"Shrubland",
	"PrimaryRoad",
	"SecondaryRoad",
	"TertiaryRoad",
	"Waterline",
}

// Older map exports use these spellings.
var vegetationAliases = map[string]Vegetation{
	"noveg":      VegetationNone,
	"forests":    VegetationForest,
	"shrublands": VegetationShrubland,
}

var densityNames = [NumDensity]string{"None", "Sparse", "Normal", "Dense"}

func (v Vegetation) String() string {
	if int(v) < NumVegetation {
		return vegetationNames[v]
	}
	return "Vegetation(" + strconv.Itoa(int(v)) + ")"
}

// Valid reports whether v is one of the declared classes.
func (v Vegetation) Valid() bool { return int(v) < NumVegetation }

func (d Density) String() string {
	if int(d) < NumDensity {
		return densityNames[d]
	}
	return "Density(" + strconv.Itoa(int(d)) + ")"
}

// Valid reports whether d is one of the declared classes.
func (d Density) Valid() bool { return int(d) < NumDensity }

// ParseVegetation resolves a case-insensitive vegetation name.
func ParseVegetation(name string) (Vegetation, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range vegetationNames {
		if strings.ToLower(n) == key {
			return Vegetation(i), true
		}
	}
	v, ok := vegetationAliases[key]
	return v, ok
}

// ParseDensity resolves a case-insensitive density name.
func ParseDensity(name string) (Density, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range densityNames {
		if strings.ToLower(n) == key {
			return Density(i), true
		}
	}
	return 0, false
}

// Vegetations lists every vegetation class in ordinal order.
func Vegetations() []Vegetation {
	out := make([]Vegetation, NumVegetation)
	for i := range out {
		out[i] = Vegetation(i)
	}
	return out
}

// Cell is one square of terrain. BurnDegree 0 means unburnt; the fire stages
// run from 1 up to the run's MaxBurn.
type Cell struct {
	Vegetation Vegetation `json:"veg"`
	Density    Density    `json:"density"`
	BurnDegree uint8      `json:"burnDegree"`
}

// Ignited reports whether the cell has ever caught fire.
func (c Cell) Ignited() bool { return c.BurnDegree > 0 }

// Coord addresses a cell by row and column.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}
