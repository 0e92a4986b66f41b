package report

import (
	"image"

	"github.com/anthonynsimon/bild/imgio"

	"wildfire-ca/internal/render"
	"wildfire-ca/internal/sims/wildfire"
)

// GridImage draws g with the fire palette, marking front cells as burning.
// f may be nil.
func GridImage(g *wildfire.Grid, f *wildfire.Front, scale int) *image.RGBA {
	cells := make([]uint8, g.W*g.H)
	wildfire.EncodeGrid(cells, g, f)
	return render.Image(cells, g.W, g.H, wildfire.Palette(), scale)
}

// SaveGrid writes GridImage as a PNG file.
func SaveGrid(path string, g *wildfire.Grid, f *wildfire.Front, scale int) error {
	return imgio.Save(path, GridImage(g, f, scale), imgio.PNGEncoder())
}
