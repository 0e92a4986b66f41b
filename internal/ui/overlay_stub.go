//go:build !ebiten

package ui

import (
	"wildfire-ca/internal/core"
	"wildfire-ca/internal/sims/wildfire"
)

// FireView is what the overlay reads from a running fire.
type FireView interface {
	core.Sim
	Params() wildfire.Params
	Grid() *wildfire.Grid
	Front() *wildfire.Front
}

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(FireView, int) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
