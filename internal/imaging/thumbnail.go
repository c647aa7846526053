package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// ThumbnailMaxWidth is the fixed width cap for design preview thumbnails.
const ThumbnailMaxWidth = 400

// Thumbnail downscales img to at most maxWidth, preserving aspect
// ratio. Images already narrow enough are returned unchanged.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
