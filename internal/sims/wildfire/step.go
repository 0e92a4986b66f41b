package wildfire

// StepReport summarises the transitions made by a single step.
type StepReport struct {
	Ignited  int
	BurntOut int
}

// Step advances the fire by one tick. Only coordinates on the front when the
// step begins spread fire; cells they ignite join the live front with
// BurnDegree 1 and are first processed on the next step. After its neighbours
// are tried, a burning cell already at MaxBurn leaves the front for good,
// otherwise its BurnDegree grows by one.
func Step(g *Grid, f *Front, p Params, src Source) StepReport {
	var rep StepReport
	maxBurn := uint8(p.MaxBurn)
	for _, at := range f.Snapshot() {
		for _, n := range Neighbors {
			row, col := at.Row+n.DRow, at.Col+n.DCol
			if !g.InBounds(row, col) {
				continue
			}
			neighbor := &g.cells[row*g.W+col]
			if neighbor.BurnDegree != 0 {
				continue
			}
			if IgnitionProbability(p, *neighbor, n.Angle) > src.Float64() {
				neighbor.BurnDegree = 1
				f.Ignite(Coord{Row: row, Col: col})
				rep.Ignited++
			}
		}

		cell := &g.cells[at.Row*g.W+at.Col]
		if cell.BurnDegree >= maxBurn {
			f.Extinguish(at)
			rep.BurntOut++
			continue
		}
		cell.BurnDegree++
	}
	return rep
}
