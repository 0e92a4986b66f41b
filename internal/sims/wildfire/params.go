package wildfire

import (
	"fmt"
	"math"
)

// VegetationWeights holds one signed spread weight per vegetation class,
// indexed by the class ordinal.
type VegetationWeights [NumVegetation]float64

// DensityWeights holds one signed spread weight per density class.
type DensityWeights [NumDensity]float64

// DefaultVegetationWeights favours forest and shrubland and damps spread over
// roads, water and cleared ground.
var DefaultVegetationWeights = VegetationWeights{
	VegetationNone:          -1,
	VegetationAgriculture:   -0.4,
	VegetationForest:        0.4,
	VegetationShrubland:     0.4,
	VegetationPrimaryRoad:   -0.7,
	VegetationSecondaryRoad: -0.6,
	VegetationTertiaryRoad:  -0.5,
	VegetationWaterline:     -0.8,
}

// FixedDensityWeights are not tunable per run.
var FixedDensityWeights = DensityWeights{
	DensityNone:   -1,
	DensitySparse: -0.3,
	DensityNormal: 0,
	DensityDense:  0.3,
}

const (
	DefaultBaseProb = 0.4
	DefaultC1       = 0.045
	DefaultC2       = 0.131
	DefaultMaxBurn  = 1
)

// Params controls ignition for a single run. Params is a value type; runs
// take their own copy.
type Params struct {
	BaseProb float64 `json:"baseProb" yaml:"baseProb"`
	C1       float64 `json:"c1" yaml:"c1"`
	C2       float64 `json:"c2" yaml:"c2"`
	// WindSpeed is in metres per second.
	WindSpeed float64 `json:"windSpeed" yaml:"windSpeed"`
	// WindDir is in radians.
	WindDir    float64           `json:"windDir" yaml:"windDir"`
	VegWeights VegetationWeights `json:"vegWeights" yaml:"vegWeights"`
	// MaxBurn is the last burn stage a cell reaches before burning out.
	MaxBurn int `json:"maxBurn" yaml:"maxBurn"`
}

// DefaultParams returns the calibrated defaults with calm wind.
func DefaultParams() Params {
	return Params{
		BaseProb:   DefaultBaseProb,
		C1:         DefaultC1,
		C2:         DefaultC2,
		VegWeights: DefaultVegetationWeights,
		MaxBurn:    DefaultMaxBurn,
	}
}

// Validate reports configuration errors that would stop a run from
// terminating or indexing correctly.
func (p Params) Validate() error {
	if p.MaxBurn < 1 || p.MaxBurn > math.MaxUint8 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxBurn, p.MaxBurn)
	}
	return nil
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }
