package wildfire

import (
	"wildfire-ca/internal/core"
)

// World adapts a single fire run to the core.Sim contract used by the
// viewers. Reset restores the terrain template and relights the fire.
type World struct {
	cfg Config

	base  *Grid
	grid  *Grid
	front *Front

	rng     *core.RNG
	steps   int
	last    StepReport
	display []uint8
}

// New returns a wildfire sim over a uniform grid using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a wildfire sim over a uniform grid built from cfg.
// Non-positive dimensions fall back to a 1x1 grid.
func NewWithConfig(cfg Config) *World {
	g, err := NewGrid(cfg.Width, cfg.Height, cfg.Vegetation, cfg.Density)
	if err != nil {
		cfg.Width, cfg.Height = 1, 1
		g, _ = NewGrid(1, 1, cfg.Vegetation, cfg.Density)
	}
	return NewWithGrid(cfg, g)
}

// NewWithGrid returns a wildfire sim over a copy of the provided terrain.
// The config's dimensions are replaced by the grid's.
func NewWithGrid(cfg Config, terrain *Grid) *World {
	cfg.Width, cfg.Height = terrain.W, terrain.H
	base := terrain.Clone()
	base.ClearBurn()
	w := &World{
		cfg:     cfg,
		base:    base,
		display: make([]uint8, terrain.W*terrain.H),
	}
	w.Reset(0)
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "wildfire" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return w.base.Size() }

// Cells exposes the current display buffer.
func (w *World) Cells() []uint8 { return w.display }

// Grid exposes the live grid.
func (w *World) Grid() *Grid { return w.grid }

// Front exposes the live fire front.
func (w *World) Front() *Front { return w.front }

// Params returns a copy of the current run parameters.
func (w *World) Params() Params { return w.cfg.Params }

// Steps reports how many steps have run since the last reset.
func (w *World) Steps() int { return w.steps }

// LastStep reports the transitions of the most recent step.
func (w *World) LastStep() StepReport { return w.last }

// Done reports whether the fire has burnt out.
func (w *World) Done() bool { return w.front.Size() == 0 }

// Reset restores the terrain and lights the configured ignition point. A zero
// seed reuses the configured one.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng = core.NewRNG(effective)
	w.grid = w.base.Clone()
	w.front = NewFront(w.grid.W)
	w.steps = 0
	w.last = StepReport{}
	at := w.cfg.IgnitionFor(w.grid)
	if err := Ignite(w.grid, w.front, at); err != nil {
		_ = Ignite(w.grid, w.front, Center(w.grid))
	}
	w.rebuildDisplay()
}

// Reignite puts out the current fire and starts a new one at the given cell.
func (w *World) Reignite(at Coord) error {
	if err := Ignite(w.grid, w.front, at); err != nil {
		return err
	}
	w.rebuildDisplay()
	return nil
}

// Step advances the fire once. It is a no-op after the fire burns out or
// when the parameters are invalid.
func (w *World) Step() {
	if w.front.Size() == 0 || w.cfg.Params.Validate() != nil {
		return
	}
	w.last = Step(w.grid, w.front, w.cfg.Params, w.rng)
	w.steps++
	w.rebuildDisplay()
}

func (w *World) rebuildDisplay() {
	EncodeGrid(w.display, w.grid, w.front)
}

func init() {
	core.Register("wildfire", func(cfg map[string]string) core.Sim {
		return NewWithConfig(FromMap(cfg))
	})
}
