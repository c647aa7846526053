package imaging

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
)

// Placeholder renders a labeled gray tile used when an image source
// cannot be fetched. The render still completes; only the failed
// element shows the placeholder.
func Placeholder(width, height int, label string) ([]byte, error) {
	if width < 16 {
		width = 16
	}
	if height < 16 {
		height = 16
	}

	dc := gg.NewContext(width, height)
	dc.SetHexColor("#e8e8e8")
	dc.Clear()

	dc.SetHexColor("#666666")
	dc.SetLineWidth(2)
	dc.DrawRectangle(1, 1, float64(width-2), float64(height-2))
	dc.Stroke()

	// Diagonals mark the tile as a missing image, readable after dithering.
	dc.DrawLine(0, 0, float64(width), float64(height))
	dc.DrawLine(float64(width), 0, 0, float64(height))
	dc.SetLineWidth(1)
	dc.Stroke()

	if label != "" {
		dc.SetHexColor("#000000")
		dc.DrawStringAnchored(label, float64(width)/2, float64(height)/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

// PlaceholderURI is Placeholder inlined as a data URL. It never fails:
// encoding a freshly drawn context cannot error in practice, but if it
// does the caller gets an empty source and the composer's alt text.
func PlaceholderURI(width, height int, label string) string {
	data, err := Placeholder(width, height, label)
	if err != nil {
		return ""
	}
	return DataURI(data)
}
