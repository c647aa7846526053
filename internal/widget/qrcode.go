package widget

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/imaging"
)

// qrcode generates the code locally and inlines it, so the rendering
// engine never fetches anything for this widget.
func (r *Registry) qrcode(w domain.Widget) (Fragment, error) {
	cfg := w.QRCodeConfig()
	if cfg.Content == "" {
		return Fragment{}, fmt.Errorf("qrcode widget %s has no content", w.ID)
	}

	size := w.Width
	if w.Height < size {
		size = w.Height
	}
	if size < 32 {
		size = 32
	}

	data, err := qrcode.Encode(cfg.Content, qrcode.Medium, size)
	if err != nil {
		return Fragment{}, fmt.Errorf("encode qrcode: %w", err)
	}

	return Fragment{
		HTML: fmt.Sprintf(`<img class="w-img" src="%s" alt="qrcode">`, imaging.DataURI(data)),
	}, nil
}
