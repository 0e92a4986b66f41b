package wildfire

import (
	"fmt"
	"math"

	"wildfire-ca/internal/core"
)

// Grid is a fixed-size, row-major array of cells.
type Grid struct {
	W, H  int
	cells []Cell
}

// NewGrid allocates a width x height grid with every cell set to the given
// vegetation and density and BurnDegree 0. Dimensions whose product does
// not fit in an int are rejected.
func NewGrid(width, height int, veg Vegetation, dens Density) (*Grid, error) {
	if width <= 0 || height <= 0 || height > math.MaxInt/width {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	g := &Grid{W: width, H: height, cells: make([]Cell, width*height)}
	for i := range g.cells {
		g.cells[i] = Cell{Vegetation: veg, Density: dens}
	}
	return g, nil
}

// Size reports the grid dimensions.
func (g *Grid) Size() core.Size { return core.Size{W: g.W, H: g.H} }

// Cells exposes the backing slice so callers can read or write cells directly.
func (g *Grid) Cells() []Cell { return g.cells }

// Index returns the linear slice index for (row, col).
func (g *Grid) Index(row, col int) int { return row*g.W + col }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.H && col >= 0 && col < g.W
}

// At returns a copy of the cell at (row, col).
func (g *Grid) At(row, col int) Cell { return g.cells[g.Index(row, col)] }

// Set overwrites the cell at (row, col).
func (g *Grid) Set(row, col int, c Cell) { g.cells[g.Index(row, col)] = c }

// Clone returns a deep copy that shares no state with g.
func (g *Grid) Clone() *Grid {
	out := &Grid{W: g.W, H: g.H, cells: make([]Cell, len(g.cells))}
	copy(out.cells, g.cells)
	return out
}

// Rows returns the cells as a freshly allocated slice of rows.
func (g *Grid) Rows() [][]Cell {
	rows := make([][]Cell, g.H)
	for r := range rows {
		rows[r] = make([]Cell, g.W)
		copy(rows[r], g.cells[r*g.W:(r+1)*g.W])
	}
	return rows
}

// PaintRegion overwrites the square of side 2*thickness-1 centred on
// (row, col), clamped to the grid, and resets the burn state of every painted
// cell. A thickness below 1 paints nothing.
func (g *Grid) PaintRegion(row, col int, veg Vegetation, dens Density, thickness int) {
	startRow := max(0, row-thickness+1)
	endRow := min(g.H, row+thickness)
	startCol := max(0, col-thickness+1)
	endCol := min(g.W, col+thickness)
	for r := startRow; r < endRow; r++ {
		for c := startCol; c < endCol; c++ {
			g.cells[r*g.W+c] = Cell{Vegetation: veg, Density: dens}
		}
	}
}

// ReplaceVegetation rewrites every cell carrying from to carry to instead.
func (g *Grid) ReplaceVegetation(from, to Vegetation) {
	for i := range g.cells {
		if g.cells[i].Vegetation == from {
			g.cells[i].Vegetation = to
		}
	}
}

// ClearBurn sets every cell back to unburnt.
func (g *Grid) ClearBurn() {
	for i := range g.cells {
		g.cells[i].BurnDegree = 0
	}
}
