// Package imaging prepares image content for scene embedding. Every
// image referenced by a widget or grid cell is fetched, flattened onto
// white, grayscaled and inlined as a data URI before the scene reaches
// the rendering engine, so the engine never needs network access
// mid-capture.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/wojo-o/inker-sub001/internal/fetch"
)

// Fetch loads image bytes from a remote URL (via the injected fetcher,
// which enforces the timeout/fallback discipline) or a local path.
func Fetch(ctx context.Context, f fetch.Fetcher, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return f.Get(ctx, source, nil)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", source, err)
	}
	return data, nil
}

// Normalize decodes an image, flattens transparency onto white and
// converts it to grayscale, re-encoding as PNG.
func Normalize(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), src, b.Min, draw.Over)

	gray := image.NewGray(flat.Bounds())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := flat.At(x, y).RGBA()
			lum := (299*(r>>8) + 587*(g>>8) + 114*(bl>>8)) / 1000
			gray.SetGray(x, y, color.Gray{Y: uint8(lum)})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("encode normalized image: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps PNG bytes as an inline data URL.
func DataURI(pngData []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}

// FetchNormalized is the common path for widget and grid-cell images:
// fetch, normalize, inline.
func FetchNormalized(ctx context.Context, f fetch.Fetcher, source string) (string, error) {
	data, err := Fetch(ctx, f, source)
	if err != nil {
		return "", err
	}
	normalized, err := Normalize(data)
	if err != nil {
		return "", err
	}
	return DataURI(normalized), nil
}
