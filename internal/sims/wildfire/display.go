package wildfire

import "image/color"

const (
	displayDensityMask     = 0x03
	displayVegetationShift = 2
	displayFireBase        = 32
	displayFireStages      = 3
	displayAsh             = displayFireBase + displayFireStages
)

var wildfirePalette = buildPalette()

// Palette exposes the colour table indexed by the display buffer values.
func (w *World) Palette() []color.RGBA { return wildfirePalette }

// Palette returns the shared colour table used by every renderer.
func Palette() []color.RGBA { return wildfirePalette }

var vegetationColors = [NumVegetation]color.RGBA{
	VegetationNone:          {R: 255, G: 255, B: 255, A: 255},
	VegetationAgriculture:   {R: 81, G: 210, B: 188, A: 255},
	VegetationForest:        {R: 141, G: 227, B: 104, A: 255},
	VegetationShrubland:     {R: 220, G: 239, B: 78, A: 255},
	VegetationPrimaryRoad:   {R: 129, G: 104, B: 253, A: 255},
	VegetationSecondaryRoad: {R: 255, G: 208, B: 26, A: 255},
	VegetationTertiaryRoad:  {R: 62, G: 255, B: 62, A: 255},
	VegetationWaterline:     {R: 79, G: 172, B: 243, A: 255},
}

var fireColors = [displayFireStages]color.RGBA{
	{R: 255, G: 87, B: 34, A: 255},
	{R: 221, G: 44, B: 0, A: 255},
	{R: 191, G: 54, B: 12, A: 255},
}

var densityAlphas = [NumDensity]uint8{63, 126, 189, 255}

func buildPalette() []color.RGBA {
	palette := make([]color.RGBA, displayAsh+1)
	for v := 0; v < NumVegetation; v++ {
		for d := 0; d < NumDensity; d++ {
			col := vegetationColors[v]
			col.A = densityAlphas[d]
			palette[v<<displayVegetationShift|d] = premultiply(col)
		}
	}
	for i, col := range fireColors {
		palette[displayFireBase+i] = col
	}
	palette[displayAsh] = color.RGBA{R: 58, G: 52, B: 48, A: 255}
	return palette
}

// color.RGBA is alpha-premultiplied.
func premultiply(c color.RGBA) color.RGBA {
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}

// EncodeCell maps a cell to its palette index. Cells that have burnt and left
// the front render as ash.
func EncodeCell(c Cell, burning bool) uint8 {
	if c.BurnDegree == 0 {
		v := uint8(c.Vegetation) % uint8(NumVegetation)
		d := uint8(c.Density) & displayDensityMask
		return v<<displayVegetationShift | d
	}
	if !burning {
		return displayAsh
	}
	stage := min(int(c.BurnDegree), displayFireStages)
	return uint8(displayFireBase + stage - 1)
}

// EncodeGrid writes the palette index of every cell of g into dst, which must
// hold W*H entries.
func EncodeGrid(dst []uint8, g *Grid, f *Front) {
	for i, c := range g.cells {
		burning := false
		if c.BurnDegree > 0 && f != nil {
			burning = f.Contains(Coord{Row: i / g.W, Col: i % g.W})
		}
		dst[i] = EncodeCell(c, burning)
	}
}
