package eink

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"

	"github.com/wojo-o/inker-sub001/internal/domain"
)

// Process applies the mode-appropriate post-processing branch to a
// composited raster and returns the final bytes.
//
// ModePreview returns the raw raster as PNG, skipping all e-ink steps.
// ModeEinkPreview dithers without inversion; ModeDevice dithers and
// inverts for the panel's polarity.
func Process(img image.Image, mode domain.RenderMode) ([]byte, error) {
	if mode == domain.ModePreview {
		return EncodePNG(img)
	}
	res, err := FitEncode(img, ScreenOptions(mode == domain.ModeDevice))
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// ProcessUpload runs the standalone single-image path: decode, dither
// and size-fit with the upload constants. Polarity inversion is left to
// the screen render that later embeds the image.
func ProcessUpload(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}
	res, err := FitEncode(img, UploadOptions())
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}
