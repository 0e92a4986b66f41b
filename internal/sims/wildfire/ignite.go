package wildfire

import "fmt"

// Center returns the default ignition point (height/2, width/2).
func Center(g *Grid) Coord { return Coord{Row: g.H / 2, Col: g.W / 2} }

// Ignite puts out whatever is currently burning, returning those cells to
// unburnt, and starts a new fire at the given coordinate.
func Ignite(g *Grid, f *Front, at Coord) error {
	if !g.InBounds(at.Row, at.Col) {
		return fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrOutOfBounds, at.Row, at.Col, g.H, g.W)
	}
	for _, c := range f.Snapshot() {
		g.cells[g.Index(c.Row, c.Col)].BurnDegree = 0
	}
	f.Clear()
	g.cells[g.Index(at.Row, at.Col)].BurnDegree = 1
	f.Ignite(at)
	return nil
}
