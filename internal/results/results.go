// Package results extracts summary statistics from a finished fire grid.
package results

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"wildfire-ca/internal/sims/wildfire"
)

// ErrNoBurnedCells is returned by Centroid when no cell ever caught fire.
var ErrNoBurnedCells = errors.New("results: no burned cells")

// Point is a fractional (row, col) position.
type Point struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

// VegetationBurn is the share of one vegetation class that burnt. Fraction is
// nil when the grid holds no cell of that class.
type VegetationBurn struct {
	Vegetation wildfire.Vegetation `json:"index"`
	Name       string              `json:"name"`
	Total      int                 `json:"total"`
	Burnt      int                 `json:"burnt"`
	Fraction   *float64            `json:"fraction"`
}

// CountBurnt returns the number of cells with BurnDegree > 0.
func CountBurnt(g *wildfire.Grid) int {
	n := 0
	for _, c := range g.Cells() {
		if c.Ignited() {
			n++
		}
	}
	return n
}

// BurnPercentage returns the share of cells that burnt, in [0, 100].
func BurnPercentage(g *wildfire.Grid) float64 {
	cells := g.Cells()
	if len(cells) == 0 {
		return 0
	}
	return 100 * float64(CountBurnt(g)) / float64(len(cells))
}

// BurntByVegetation reports, per vegetation class in ordinal order, how much
// of that class burnt.
func BurntByVegetation(g *wildfire.Grid) []VegetationBurn {
	var totals, burnt [wildfire.NumVegetation]int
	for _, c := range g.Cells() {
		if !c.Vegetation.Valid() {
			continue
		}
		totals[c.Vegetation]++
		if c.Ignited() {
			burnt[c.Vegetation]++
		}
	}
	out := make([]VegetationBurn, 0, wildfire.NumVegetation)
	for _, v := range wildfire.Vegetations() {
		vb := VegetationBurn{Vegetation: v, Name: v.String(), Total: totals[v], Burnt: burnt[v]}
		if totals[v] > 0 {
			frac := float64(burnt[v]) / float64(totals[v])
			vb.Fraction = &frac
		}
		out = append(out, vb)
	}
	return out
}

// Centroid returns the mean row and column of every burnt cell.
func Centroid(g *wildfire.Grid) (Point, error) {
	var rows, cols []float64
	for i, c := range g.Cells() {
		if !c.Ignited() {
			continue
		}
		rows = append(rows, float64(i/g.W))
		cols = append(cols, float64(i%g.W))
	}
	if len(rows) == 0 {
		return Point{}, ErrNoBurnedCells
	}
	n := float64(len(rows))
	return Point{Row: floats.Sum(rows) / n, Col: floats.Sum(cols) / n}, nil
}

// MovingAverage smooths values with a trailing window of the given size.
// The first window-1 outputs average over the values seen so far.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 {
		return append([]float64(nil), values...)
	}
	out := make([]float64, len(values))
	for i := range values {
		lo := max(0, i-window+1)
		span := values[lo : i+1]
		out[i] = floats.Sum(span) / float64(len(span))
	}
	return out
}
