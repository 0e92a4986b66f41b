//go:build ebiten

package app

import (
	"fmt"
	"time"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/render"
	"wildfire-ca/internal/results"
	"wildfire-ca/internal/sims/wildfire"
	"wildfire-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HUDWidth is the width in pixels of the control panel right of the grid.
const HUDWidth = 220

// Game adapts a fire world to the ebiten.Game interface.
type Game struct {
	world   *wildfire.World
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	pacer   *core.Pacer

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided world.
func New(world *wildfire.World, scale, tps int, seed int64) *Game {
	scale = max(scale, 1)
	size := world.Size()
	g := &Game{
		world:   world,
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(world, HUDWidth),
		overlay: ui.NewOverlay(world, scale),
		pacer:   core.NewPacer(tps),
		scale:   scale,
		seed:    seed,
	}
	g.hud.SetStatus(g.status)
	return g
}

// Reset restores the terrain and relights the fire with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.world.Reset(seed)
	g.tickOnce = false
}

func (g *Game) status() []string {
	state := "running"
	switch {
	case g.world.Done():
		state = "burnt out"
	case g.paused:
		state = "paused"
	}
	last := g.world.LastStep()
	return []string{
		fmt.Sprintf("step %d (%s)", g.world.Steps(), state),
		fmt.Sprintf("front %d", g.world.Front().Size()),
		fmt.Sprintf("ignited %d  out %d", last.Ignited, last.BurntOut),
		fmt.Sprintf("burnt %.1f%%", results.BurnPercentage(g.world.Grid())),
	}
}

// Update handles per-frame logic and advances the fire.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		_ = g.world.Reignite(wildfire.Center(g.world.Grid()))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		// Clicks on the panel are handled by the HUD.
		_ = g.world.Reignite(wildfire.Coord{Row: y / g.scale, Col: x / g.scale})
	}

	g.overlay.Update()
	g.hud.Update(g.gridWidth())

	if g.tickOnce || (!g.paused && g.pacer.Ready()) {
		g.world.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the grid, the overlay and the panel.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.world.Cells(), g.world.Palette(), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.gridWidth(), g.scale)
}

func (g *Game) gridWidth() int { return g.world.Size().W * g.scale }

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.gridWidth() + HUDWidth, g.world.Size().H * g.scale
}
