package overlay

import (
	"image"
	"image/draw"
)

// Composite alpha-composites the drawing layer over the widget raster
// at (0,0). The base is copied; neither input is mutated.
func Composite(base image.Image, drawing image.Image) *image.RGBA {
	b := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), base, b.Min, draw.Src)
	draw.Draw(out, drawing.Bounds().Sub(drawing.Bounds().Min), drawing, drawing.Bounds().Min, draw.Over)
	return out
}
