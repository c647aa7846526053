package eink

import (
	"image"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"
)

// SizeBudget is the maximum byte size a device accepts for one screen.
const SizeBudget = 90000

const (
	screenScaleFactor = 0.9
	screenMaxAttempts = 10

	uploadScaleFactor = 0.85
	uploadMaxAttempts = 15
)

// FitOptions parameterizes the size-fitting loop. The screen-capture
// and image-upload call sites use different constants on purpose.
type FitOptions struct {
	Budget      int
	ScaleFactor float64
	MaxAttempts int
	Threshold   uint8
	Invert      bool
}

// ScreenOptions are the fitting parameters for full-screen captures.
func ScreenOptions(invert bool) FitOptions {
	return FitOptions{
		Budget:      SizeBudget,
		ScaleFactor: screenScaleFactor,
		MaxAttempts: screenMaxAttempts,
		Threshold:   ThresholdScreen,
		Invert:      invert,
	}
}

// UploadOptions are the fitting parameters for the standalone
// single-image upload path.
func UploadOptions() FitOptions {
	return FitOptions{
		Budget:      SizeBudget,
		ScaleFactor: uploadScaleFactor,
		MaxAttempts: uploadMaxAttempts,
		Threshold:   ThresholdUpload,
		Invert:      false,
	}
}

// FitResult is the outcome of the fitting loop.
type FitResult struct {
	Data     []byte
	Attempts int
	Width    int
	Height   int
}

// FitEncode runs the monochrome pipeline, shrinking the working raster
// by o.ScaleFactor per attempt until the encoded size fits o.Budget or
// o.MaxAttempts is reached. The budget is a soft constraint: on
// exhaustion the smallest result obtained is returned with a warning,
// never an error.
func FitEncode(src image.Image, o FitOptions) (FitResult, error) {
	var best FitResult

	for attempt := 1; attempt <= o.MaxAttempts; attempt++ {
		working := src
		if attempt > 1 {
			scale := math.Pow(o.ScaleFactor, float64(attempt-1))
			working = rescale(src, scale)
		}
		wb := working.Bounds()

		data, err := renderBits(working, o.Threshold, o.Invert)
		if err != nil {
			return FitResult{}, err
		}

		if best.Data == nil || len(data) < len(best.Data) {
			best = FitResult{Data: data, Attempts: attempt, Width: wb.Dx(), Height: wb.Dy()}
		}
		if len(data) <= o.Budget {
			best.Attempts = attempt
			return best, nil
		}
	}

	log.Printf("eink: size budget exceeded after %d attempts, returning best effort (%d bytes > %d)",
		o.MaxAttempts, len(best.Data), o.Budget)
	return best, nil
}

// rescale shrinks src by the given factor using Catmull-Rom resampling.
func rescale(src image.Image, scale float64) image.Image {
	b := src.Bounds()
	w := int(math.Round(float64(b.Dx()) * scale))
	h := int(math.Round(float64(b.Dy()) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
