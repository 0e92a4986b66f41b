package wildfire

import "math"

// Offset is a relative neighbour position together with the heading of the
// step from the burning cell to that neighbour. Wind blowing towards that
// heading favours the neighbour.
type Offset struct {
	DRow, DCol int
	Angle      float64
}

// Neighbors are the eight Moore offsets. Headings are counterclockwise from
// east with north up; rows grow southwards, so row -1 is north.
var Neighbors = [8]Offset{
	{DRow: -1, DCol: -1, Angle: 3 * math.Pi / 4},
	{DRow: -1, DCol: 0, Angle: math.Pi / 2},
	{DRow: -1, DCol: 1, Angle: math.Pi / 4},
	{DRow: 0, DCol: 1, Angle: 0},
	{DRow: 1, DCol: 1, Angle: -math.Pi / 4},
	{DRow: 1, DCol: 0, Angle: -math.Pi / 2},
	{DRow: 1, DCol: -1, Angle: -3 * math.Pi / 4},
	{DRow: 0, DCol: -1, Angle: math.Pi},
}

// Source yields uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// WindEffect is the directional multiplier for an offset with the given
// incidence angle. It is exactly 1 when the wind speed is 0.
func WindEffect(p Params, angle float64) float64 {
	return math.Exp(p.WindSpeed * (p.C1 + p.C2*(math.Cos(p.WindDir-angle)-1)))
}

// slopeEffect is neutral; the grid carries no elevation.
const slopeEffect = 1.0

// IgnitionProbability returns the chance that fire crosses from a burning
// cell into target along an offset with the given angle. The value is not
// clamped: strong positive weights and wind can push it above 1 and
// weights below -1 push it under 0. Since ignition happens iff the value
// exceeds a draw in [0, 1), such values behave exactly like 1 and 0.
func IgnitionProbability(p Params, target Cell, angle float64) float64 {
	veg := 0.0
	if target.Vegetation.Valid() {
		veg = p.VegWeights[target.Vegetation]
	}
	dens := 0.0
	if target.Density.Valid() {
		dens = FixedDensityWeights[target.Density]
	}
	return p.BaseProb * (1 + veg) * (1 + dens) * WindEffect(p, angle) * slopeEffect
}
