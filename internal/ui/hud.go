//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"wildfire-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	panelBg      = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor   = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor   = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	statusColor  = color.RGBA{R: 255, G: 190, B: 110, A: 255}
	buttonBg     = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonBgOff  = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	buttonFg     = color.RGBA{R: 230, G: 230, B: 240, A: 255}
	buttonFgOff  = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	hudFace      = basicfont.Face7x13
	hudTitleText = "Fire controls"
)

const (
	panelPadding  = 12
	lineHeight    = 32
	statusHeight  = 16
	buttonSize    = 22
	buttonGap     = 6
	titleBaseline = 18
	labelBaseline = 20
)

// HUD is the side panel: run status on top, +/- buttons for every
// adjustable parameter below.
type HUD struct {
	sim    core.Sim
	setter core.ParameterSetter
	width  int

	panel *ebiten.Image
	pixel *ebiten.Image

	status   func() []string
	lines    []string
	controls []hudControl
	offsetX  int
}

type hudControl struct {
	def   core.ParameterControl
	value float64
	text  string
	ok    bool

	minus image.Rectangle
	plus  image.Rectangle
}

// NewHUD builds a panel of the given width for sim. Sims that do not expose
// controls only get the status block.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if setter, ok := sim.(core.ParameterSetter); ok {
		h.setter = setter
	}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for _, def := range provider.ParameterControls() {
			h.controls = append(h.controls, hudControl{def: def, text: "--"})
		}
	}
	return h
}

// SetStatus installs the callback producing the status lines.
func (h *HUD) SetStatus(fn func() []string) {
	if h != nil {
		h.status = fn
	}
}

// Update refreshes values and applies clicks. panelOffsetX is the screen x of
// the panel's left edge.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.offsetX = panelOffsetX
	if h.status != nil {
		h.lines = h.status()
	}
	h.layout()
	h.refresh()

	if h.setter == nil || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	pt := image.Pt(mx-h.offsetX, my)
	for i := range h.controls {
		c := &h.controls[i]
		switch {
		case !c.ok:
		case pt.In(c.minus):
			h.nudge(c, -1)
			return
		case pt.In(c.plus):
			h.nudge(c, 1)
			return
		}
	}
}

func (h *HUD) refresh() {
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		return
	}
	snapshot := provider.Parameters()
	for i := range h.controls {
		c := &h.controls[i]
		c.ok = false
		c.text = "--"
		param, found := snapshot.Lookup(c.def.Key)
		if !found {
			continue
		}
		v, parsed := param.Float()
		if !parsed {
			continue
		}
		c.value, c.ok = v, true
		c.text = formatValue(c.def, v) + param.Unit
	}
}

// target is the value one click in dir would set, and whether it differs
// from the current one.
func (c *hudControl) target(dir int) (float64, bool) {
	step := c.def.Step
	if step <= 0 {
		step = 1
	}
	next := c.def.Clamp(c.value + float64(dir)*step)
	if c.def.Type == core.ParamTypeInt {
		next = math.Round(next)
	}
	return next, math.Abs(next-c.value) > 1e-9
}

func (h *HUD) nudge(c *hudControl, dir int) {
	next, changed := c.target(dir)
	if !changed {
		return
	}
	var applied bool
	if c.def.Type == core.ParamTypeInt {
		applied = h.setter.SetIntParameter(c.def.Key, int(next))
	} else {
		applied = h.setter.SetFloatParameter(c.def.Key, next)
	}
	if applied {
		c.value = next
		c.text = formatValue(c.def, next)
	}
}

func (h *HUD) controlsTop() int {
	return panelPadding + titleBaseline + 10 + len(h.lines)*statusHeight + 8
}

func (h *HUD) layout() {
	top := h.controlsTop()
	for i := range h.controls {
		y := top + i*lineHeight + (lineHeight-buttonSize)/2
		right := h.width - panelPadding
		h.controls[i].plus = image.Rect(right-buttonSize, y, right, y+buttonSize)
		h.controls[i].minus = image.Rect(right-2*buttonSize-buttonGap, y, right-buttonSize-buttonGap, y+buttonSize)
	}
}

// Draw paints the panel at offsetX, as tall as the scaled grid.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelBg)

	y := panelPadding + titleBaseline
	text.Draw(h.panel, hudTitleText, hudFace, panelPadding, y, titleColor)
	y += 10
	for _, line := range h.lines {
		y += statusHeight
		text.Draw(h.panel, line, hudFace, panelPadding, y, statusColor)
	}
	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", hudFace, panelPadding, y+lineHeight, mutedColor)
	}

	top := h.controlsTop()
	for i := range h.controls {
		c := &h.controls[i]
		baseline := top + i*lineHeight + labelBaseline
		text.Draw(h.panel, c.def.Label, hudFace, panelPadding, baseline, labelColor)
		valueColor := labelColor
		if !c.ok {
			valueColor = mutedColor
		}
		valueX := c.minus.Min.X - buttonGap - text.BoundString(hudFace, c.text).Dx()
		text.Draw(h.panel, c.text, hudFace, valueX, baseline, valueColor)

		_, canDown := c.target(-1)
		_, canUp := c.target(1)
		h.drawButton(c.minus, "-", c.ok && h.setter != nil && canDown)
		h.drawButton(c.plus, "+", c.ok && h.setter != nil && canUp)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonBg, buttonFg
	if !enabled {
		bg, fg = buttonBgOff, buttonFgOff
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	b := text.BoundString(hudFace, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, hudFace, x, y, fg)
}

func formatValue(def core.ParameterControl, v float64) string {
	if def.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	precision := 1
	switch {
	case def.Step < 0.01:
		precision = 3
	case def.Step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
