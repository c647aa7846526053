// Package eink converts full-color rasters into 1-bit bitmaps suitable
// for monochrome e-paper panels: grayscale conversion, contrast
// stretch, Floyd–Steinberg error diffusion, optional polarity
// inversion, 2-color PNG encoding, and an iterative size-fitting loop.
//
// The numeric constants here are part of the output contract. Devices
// in the field were calibrated against these exact values; changing
// them changes every rendered screen bit-for-bit.
package eink

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

const (
	// ThresholdScreen is the dither threshold for full-screen captures,
	// biased toward white. ThresholdUpload is used by the standalone
	// image-upload path. The two call sites intentionally differ.
	ThresholdScreen uint8 = 140
	ThresholdUpload uint8 = 128

	// Pre-dither contrast snap bounds: luminance at or above snapWhite
	// clamps to 255, at or below snapBlack clamps to 0. Reduces dither
	// noise in near-flat regions.
	snapWhite = 200
	snapBlack = 55
)

// Palette is the 2-color output palette. Index 0 is black, 1 is white.
var Palette = color.Palette{color.Gray{Y: 0x00}, color.Gray{Y: 0xff}}

// Grayscale flattens transparency onto white and converts to a single
// luminance channel (ITU-R BT.601 weights, integer arithmetic).
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			// Premultiplied channels composited over white.
			inv := 0xffff - a
			r = clamp16(r + inv)
			g = clamp16(g + inv)
			bl = clamp16(bl + inv)
			lum := (299*(r>>8) + 587*(g>>8) + 114*(bl>>8)) / 1000
			out.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: uint8(lum)})
		}
	}
	return out
}

func clamp16(v uint32) uint32 {
	if v > 0xffff {
		return 0xffff
	}
	return v
}

// StretchContrast linearly maps the image's min..max luminance onto the
// full 0..255 range. A flat image is left untouched.
func StretchContrast(g *image.Gray) {
	lo, hi := uint8(0xff), uint8(0x00)
	for _, v := range g.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo >= hi {
		return
	}
	span := int(hi) - int(lo)
	for i, v := range g.Pix {
		g.Pix[i] = uint8((int(v) - int(lo)) * 255 / span)
	}
}

// Snap clamps near-white and near-black luminance before diffusion.
func Snap(g *image.Gray) {
	for i, v := range g.Pix {
		switch {
		case v >= snapWhite:
			g.Pix[i] = 255
		case v <= snapBlack:
			g.Pix[i] = 0
		}
	}
}

// Dither applies Floyd–Steinberg error diffusion in row-major order
// with the classic 7/16, 3/16, 5/16, 1/16 neighbor weights. The scan
// order and integer error math are fixed: the same input always yields
// the same output.
func Dither(g *image.Gray, threshold uint8) *image.Paletted {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	dst := image.NewPaletted(image.Rect(0, 0, w, h), Palette)

	buf := make([]int32, w*h)
	for i, v := range g.Pix {
		buf[i] = int32(v)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			old := buf[i]
			var quantErr int32
			if old >= int32(threshold) {
				dst.Pix[i] = 1 // white
				quantErr = old - 255
			} else {
				dst.Pix[i] = 0 // black
				quantErr = old
			}
			if x+1 < w {
				buf[i+1] += quantErr * 7 / 16
			}
			if y+1 < h {
				if x > 0 {
					buf[i+w-1] += quantErr * 3 / 16
				}
				buf[i+w] += quantErr * 5 / 16
				if x+1 < w {
					buf[i+w+1] += quantErr * 1 / 16
				}
			}
		}
	}
	return dst
}

// Invert flips black and white in place. E-ink hardware expects
// inverted polarity for device-bound output.
func Invert(p *image.Paletted) {
	for i := range p.Pix {
		p.Pix[i] ^= 1
	}
}

// EncodePaletted encodes the 2-color image as a paletted PNG (the
// stdlib encoder emits 1-bit depth for a two-entry palette).
func EncodePaletted(p *image.Paletted) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodePNG encodes an arbitrary raster unchanged (preview mode).
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderBits runs the full monochrome pipeline on one working buffer.
func renderBits(img image.Image, threshold uint8, invert bool) ([]byte, error) {
	g := Grayscale(img)
	StretchContrast(g)
	Snap(g)
	p := Dither(g, threshold)
	if invert {
		Invert(p)
	}
	return EncodePaletted(p)
}
