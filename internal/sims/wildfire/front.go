package wildfire

// Front is the set of coordinates currently burning. Members are keyed by
// their packed row*width+col value, so the same logical cell is always found
// again regardless of how its Coord was built. Iteration order is the
// insertion order with swap-removal, which keeps seeded runs reproducible.
type Front struct {
	width int
	order []int
	pos   map[int]int
}

// NewFront returns an empty front for a grid of the given width.
func NewFront(width int) *Front {
	return &Front{width: width, pos: make(map[int]int)}
}

func (f *Front) key(c Coord) int { return c.Row*f.width + c.Col }

func (f *Front) coord(k int) Coord { return Coord{Row: k / f.width, Col: k % f.width} }

// Ignite adds c to the front. It reports false when c was already present.
func (f *Front) Ignite(c Coord) bool {
	k := f.key(c)
	if _, ok := f.pos[k]; ok {
		return false
	}
	f.pos[k] = len(f.order)
	f.order = append(f.order, k)
	return true
}

// Extinguish removes c from the front. It reports false when c was absent.
func (f *Front) Extinguish(c Coord) bool {
	k := f.key(c)
	i, ok := f.pos[k]
	if !ok {
		return false
	}
	last := len(f.order) - 1
	if i != last {
		moved := f.order[last]
		f.order[i] = moved
		f.pos[moved] = i
	}
	f.order = f.order[:last]
	delete(f.pos, k)
	return true
}

// Contains reports whether c is on the front.
func (f *Front) Contains(c Coord) bool {
	_, ok := f.pos[f.key(c)]
	return ok
}

// Size returns the number of burning coordinates.
func (f *Front) Size() int { return len(f.order) }

// Snapshot returns the current members as a new slice that later mutation of
// the front does not affect.
func (f *Front) Snapshot() []Coord {
	out := make([]Coord, len(f.order))
	for i, k := range f.order {
		out[i] = f.coord(k)
	}
	return out
}

// Clear empties the front.
func (f *Front) Clear() {
	f.order = f.order[:0]
	clear(f.pos)
}
