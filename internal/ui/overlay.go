//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"wildfire-ca/internal/core"
	"wildfire-ca/internal/sims/wildfire"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// FireView is what the overlay reads from a running fire.
type FireView interface {
	core.Sim
	Params() wildfire.Params
	Grid() *wildfire.Grid
	Front() *wildfire.Front
}

var (
	frontTint  = color.RGBA{R: 255, G: 240, B: 120, A: 0}
	spreadLow  = color.RGBA{R: 40, G: 90, B: 200, A: 0}
	spreadHigh = color.RGBA{R: 230, G: 40, B: 40, A: 0}
	calmColor  = color.RGBA{R: 90, G: 130, B: 170, A: 120}
)

// Overlay draws optional visual aids over the grid: 1 toggles wind arrows,
// 2 highlights the fire front, 3 shades cells by how readily they ignite.
type Overlay struct {
	fire  FireView
	scale int

	showWind   bool
	showFront  bool
	showSpread bool

	pixel   *ebiten.Image
	maskImg *ebiten.Image
	maskBuf []byte
}

// NewOverlay constructs an overlay for fire drawn at the given scale.
func NewOverlay(fire FireView, scale int) *Overlay {
	o := &Overlay{fire: fire, scale: max(scale, 1), showWind: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the toggle keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showWind = !o.showWind
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showFront = !o.showFront
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showSpread = !o.showSpread
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	g := o.fire.Grid()
	if g == nil || g.W == 0 || g.H == 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != g.W || o.maskImg.Bounds().Dy() != g.H {
		o.maskImg = ebiten.NewImage(g.W, g.H)
		o.maskBuf = make([]byte, 4*g.W*g.H)
	}
	if o.showSpread {
		o.drawMask(screen, spreadMask(g, o.fire.Params()), func(t float64) color.RGBA {
			return lerpRGBA(spreadLow, spreadHigh, t)
		})
	}
	if o.showFront {
		o.drawMask(screen, frontMask(g, o.fire.Front()), func(float64) color.RGBA { return frontTint })
	}
	if o.showWind {
		o.drawWind(screen, o.fire.Params(), g)
	}
}

// spreadMask scales each unburnt cell's calm-air ignition factor into
// [0, 1] relative to the most flammable class.
func spreadMask(g *wildfire.Grid, p wildfire.Params) []float32 {
	p.BaseProb, p.WindSpeed = 1, 0
	mask := make([]float32, g.W*g.H)
	hi := 0.0
	for _, v := range wildfire.Vegetations() {
		hi = max(hi, wildfire.IgnitionProbability(p, wildfire.Cell{Vegetation: v, Density: wildfire.DensityDense}, 0))
	}
	if hi <= 0 {
		return mask
	}
	for i, c := range g.Cells() {
		if c.BurnDegree > 0 {
			continue
		}
		mask[i] = float32(clamp01(wildfire.IgnitionProbability(p, c, 0) / hi))
	}
	return mask
}

func frontMask(g *wildfire.Grid, f *wildfire.Front) []float32 {
	mask := make([]float32, g.W*g.H)
	if f == nil {
		return mask
	}
	for _, c := range f.Snapshot() {
		mask[g.Index(c.Row, c.Col)] = 1
	}
	return mask
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, tint func(float64) color.RGBA) {
	const maxAlpha = 150.0
	for i, m := range mask {
		base := i * 4
		t := clamp01(float64(m))
		if t == 0 {
			clear(o.maskBuf[base : base+4])
			continue
		}
		c := tint(t)
		a := maxAlpha * math.Sqrt(t) / 255
		o.maskBuf[base+0] = uint8(float64(c.R) * a)
		o.maskBuf[base+1] = uint8(float64(c.G) * a)
		o.maskBuf[base+2] = uint8(float64(c.B) * a)
		o.maskBuf[base+3] = uint8(a * 255)
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}

// drawWind draws a lattice of arrows pointing where the wind pushes the
// fire. Arrow length grows with the downwind spread multiplier.
func (o *Overlay) drawWind(screen *ebiten.Image, p wildfire.Params, g *wildfire.Grid) {
	const (
		samples   = 8
		headAngle = math.Pi / 6
		calmSpeed = 0.05
	)
	spanX := float64(g.W*o.scale) / samples
	spanY := float64(g.H*o.scale) / samples
	span := math.Min(spanX, spanY)

	// Screen y grows downwards.
	dx, dy := math.Cos(p.WindDir), -math.Sin(p.WindDir)
	boost := clamp01((wildfire.WindEffect(p, p.WindDir) - 1) / 2)
	length := span * (0.3 + 0.4*math.Sqrt(boost))
	thickness := math.Max(1, float64(o.scale)*0.8)
	col := lerpRGBA(color.RGBA{R: 80, G: 200, B: 255, A: 200}, color.RGBA{R: 255, G: 255, B: 255, A: 230}, boost)

	for yi := 0; yi < samples; yi++ {
		cy := (float64(yi) + 0.5) * spanY
		for xi := 0; xi < samples; xi++ {
			cx := (float64(xi) + 0.5) * spanX
			if p.WindSpeed < calmSpeed {
				o.drawPoint(screen, cx, cy, math.Max(2, span*0.1), calmColor)
				continue
			}
			tipX, tipY := cx+dx*length/2, cy+dy*length/2
			tailX, tailY := cx-dx*length/2, cy-dy*length/2
			o.drawLine(screen, tailX, tailY, tipX, tipY, thickness, col)
			head := length * 0.3
			angle := math.Atan2(dy, dx)
			o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+headAngle)*head, tipY-math.Sin(angle+headAngle)*head, thickness, col)
			o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-headAngle)*head, tipY-math.Sin(angle-headAngle)*head, thickness, col)
		}
	}
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size/2, y-size/2)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	length := math.Hypot(x2-x1, y2-y1)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(y2-y1, x2-x1))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t)) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
