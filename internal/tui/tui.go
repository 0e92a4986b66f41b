// Package tui renders a running fire in a terminal, two grid rows per text
// line using half-block glyphs.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/sims/wildfire"
)

const minTick = 10 * time.Millisecond

// Viewer drives a wildfire world on a tcell screen.
type Viewer struct {
	screen tcell.Screen
	world  *wildfire.World
	pacer  *core.Pacer
	colors []tcell.Color

	paused   bool
	selected int
	seed     int64
}

// New returns a viewer for world stepping at most stepsPerSecond times per
// second. The screen must already be initialised.
func New(screen tcell.Screen, world *wildfire.World, stepsPerSecond int, seed int64) *Viewer {
	palette := world.Palette()
	colors := make([]tcell.Color, len(palette))
	for i, c := range palette {
		colors[i] = toColor(c)
	}
	return &Viewer{
		screen: screen,
		world:  world,
		pacer:  core.NewPacer(stepsPerSecond),
		colors: colors,
		seed:   seed,
	}
}

func toColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Paused reports whether stepping is suspended.
func (v *Viewer) Paused() bool { return v.paused }

// Run polls input and advances the world until ctx ends or the user quits.
func (v *Viewer) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(max(v.pacer.Interval(), minTick))
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				v.screen.Sync()
			case *tcell.EventKey:
				if v.HandleKey(ev) {
					return nil
				}
			}
			v.Draw()
		case <-ticker.C:
			if !v.paused && !v.world.Done() && v.pacer.Ready() {
				v.world.Step()
				v.Draw()
			}
		}
	}
}

// HandleKey applies one key press and reports whether the viewer should
// exit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	controls := v.world.ParameterControls()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.selected = (v.selected + len(controls) - 1) % len(controls)
	case tcell.KeyDown:
		v.selected = (v.selected + 1) % len(controls)
	case tcell.KeyLeft:
		v.adjust(controls[v.selected], -1)
	case tcell.KeyRight:
		v.adjust(controls[v.selected], 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			v.paused = !v.paused
		case 'n':
			v.world.Step()
		case 'r':
			v.world.Reset(v.seed)
		case 's':
			v.seed = time.Now().UnixNano()
			v.world.Reset(v.seed)
		case 'c':
			_ = v.world.Reignite(wildfire.Center(v.world.Grid()))
		}
	}
	return false
}

func (v *Viewer) adjust(ctrl core.ParameterControl, dir float64) {
	param, ok := v.world.Parameters().Lookup(ctrl.Key)
	if !ok {
		return
	}
	current, ok := param.Float()
	if !ok {
		return
	}
	next := ctrl.Clamp(current + dir*ctrl.Step)
	if ctrl.Type == core.ParamTypeInt {
		v.world.SetIntParameter(ctrl.Key, int(next))
		return
	}
	v.world.SetFloatParameter(ctrl.Key, next)
}

// Draw paints the grid and a status line. Grid rows that do not fit the
// screen are cropped.
func (v *Viewer) Draw() {
	v.screen.Clear()
	sw, sh := v.screen.Size()
	size := v.world.Size()
	cells := v.world.Cells()
	lines := min((size.H+1)/2, sh-1)
	cols := min(size.W, sw)

	for y := 0; y < lines; y++ {
		top := 2 * y
		for x := 0; x < cols; x++ {
			style := tcell.StyleDefault.Foreground(v.color(cells[top*size.W+x]))
			if top+1 < size.H {
				style = style.Background(v.color(cells[(top+1)*size.W+x]))
			}
			v.screen.SetContent(x, y, '▀', nil, style)
		}
	}
	v.drawStatus(sh - 1)
	v.screen.Show()
}

func (v *Viewer) color(idx uint8) tcell.Color {
	if int(idx) >= len(v.colors) {
		return tcell.ColorBlack
	}
	return v.colors[idx]
}

func (v *Viewer) drawStatus(y int) {
	if y < 0 {
		return
	}
	controls := v.world.ParameterControls()
	ctrl := controls[v.selected%len(controls)]
	value := ""
	if p, ok := v.world.Parameters().Lookup(ctrl.Key); ok {
		value = p.Value + p.Unit
	}
	state := "running"
	switch {
	case v.world.Done():
		state = "burnt out"
	case v.paused:
		state = "paused"
	}
	line := fmt.Sprintf("step %d  front %d  %s  [%s = %s]  ←/→ adjust  ↑/↓ select  space pause  n step  r reset  c relight  q quit",
		v.world.Steps(), v.world.Front().Size(), state, ctrl.Label, value)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	x := 0
	for _, r := range line {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
