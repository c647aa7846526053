package imaging_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/wojo-o/inker-sub001/internal/imaging"
)

func TestNormalize_GrayscalesAndFlattens(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{R: 255, A: 255}) // red
	// (1,0) fully transparent

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	out, err := imaging.Normalize(buf.Bytes())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if _, ok := img.(*image.Gray); !ok {
		t.Fatalf("normalized image is %T, want grayscale", img)
	}
	if y := img.(*image.Gray).GrayAt(0, 0).Y; y != 76 {
		t.Errorf("red pixel luminance %d, want 76", y)
	}
	if y := img.(*image.Gray).GrayAt(1, 0).Y; y != 255 {
		t.Errorf("transparent pixel luminance %d, want 255 (flattened to white)", y)
	}
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	if _, err := imaging.Normalize([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDataURI(t *testing.T) {
	uri := imaging.DataURI([]byte{1, 2, 3})
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix: %q", uri)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	if err != nil || !bytes.Equal(decoded, []byte{1, 2, 3}) {
		t.Errorf("payload round trip failed: %v %v", decoded, err)
	}
}

func TestPlaceholder_ValidPNGAtRequestedSize(t *testing.T) {
	data, err := imaging.Placeholder(120, 80, "image unavailable")
	if err != nil {
		t.Fatalf("Placeholder: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("placeholder is not valid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Errorf("placeholder is %dx%d, want 120x80", b.Dx(), b.Dy())
	}
}

func TestPlaceholder_MinimumSize(t *testing.T) {
	data, err := imaging.Placeholder(0, 0, "")
	if err != nil {
		t.Fatalf("Placeholder: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() < 16 || b.Dy() < 16 {
		t.Errorf("degenerate request produced %dx%d tile", b.Dx(), b.Dy())
	}
}

func TestThumbnail(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 800, 480))
	out := imaging.Thumbnail(wide, imaging.ThumbnailMaxWidth)
	if b := out.Bounds(); b.Dx() != 400 || b.Dy() != 240 {
		t.Errorf("thumbnail is %dx%d, want 400x240", b.Dx(), b.Dy())
	}

	narrow := image.NewRGBA(image.Rect(0, 0, 300, 200))
	if out := imaging.Thumbnail(narrow, imaging.ThumbnailMaxWidth); out != narrow {
		t.Error("image narrower than the cap must be returned unchanged")
	}
}
