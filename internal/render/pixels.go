// Package render turns encoded cell buffers into pixels.
package render

import (
	"image"
	"image/color"
)

// FillPalette converts cell values into RGBA pixels in buf using a palette.
// Values past the end of the palette use its last entry. When the palette is
// empty the buffer is cleared to transparent black.
func FillPalette(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := min(int(c), last)
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Image renders a w by h cell buffer into a new RGBA image, each cell
// covering a scale by scale block.
func Image(cells []uint8, w, h int, palette []color.RGBA, scale int) *image.RGBA {
	scale = max(scale, 1)
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	if len(cells) != w*h {
		return img
	}
	if scale == 1 {
		FillPalette(img.Pix, cells, palette)
		return img
	}
	row := make([]byte, 4*w)
	for y := 0; y < h; y++ {
		FillPalette(row, cells[y*w:(y+1)*w], palette)
		for dy := 0; dy < scale; dy++ {
			dst := img.Pix[(y*scale+dy)*img.Stride:]
			for x := 0; x < w; x++ {
				for dx := 0; dx < scale; dx++ {
					copy(dst[4*(x*scale+dx):4*(x*scale+dx)+4], row[4*x:4*x+4])
				}
			}
		}
	}
	return img
}
