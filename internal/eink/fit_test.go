package eink_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/wojo-o/inker-sub001/internal/eink"
)

func noisyImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x*31 + y*17) % 256)
			img.Set(x, y, color.RGBA{R: v, G: 255 - v, B: v ^ 0x55, A: 255})
		}
	}
	return img
}

func TestFitEncode_FitsFirstAttempt(t *testing.T) {
	src := noisyImage(64, 64)
	res, err := eink.FitEncode(src, eink.ScreenOptions(false))
	if err != nil {
		t.Fatalf("FitEncode: %v", err)
	}
	if res.Attempts != 1 {
		t.Errorf("small image took %d attempts, want 1", res.Attempts)
	}
	if res.Width != 64 || res.Height != 64 {
		t.Errorf("got %dx%d, want 64x64 (no rescale)", res.Width, res.Height)
	}
	if len(res.Data) > eink.SizeBudget {
		t.Errorf("result %d bytes exceeds budget %d", len(res.Data), eink.SizeBudget)
	}
}

func TestFitEncode_ShrinksUntilExhausted(t *testing.T) {
	src := noisyImage(64, 64)
	o := eink.FitOptions{
		Budget:      1, // unreachable: forces every attempt
		ScaleFactor: 0.5,
		MaxAttempts: 3,
		Threshold:   eink.ThresholdScreen,
	}
	res, err := eink.FitEncode(src, o)
	if err != nil {
		t.Fatalf("FitEncode: %v", err)
	}
	if res.Data == nil {
		t.Fatal("exhausted loop must still return best-effort data")
	}
	// attempt 3 works on a 0.25-scaled raster, which compresses smallest
	if res.Width != 16 || res.Height != 16 {
		t.Errorf("best effort is %dx%d, want 16x16", res.Width, res.Height)
	}
}

func TestUploadOptions_NeverInvert(t *testing.T) {
	if eink.UploadOptions().Invert {
		t.Fatal("upload path must not invert; polarity is applied when the screen embedding it is rendered")
	}
	if !eink.ScreenOptions(true).Invert {
		t.Fatal("device screen options must invert")
	}
}
