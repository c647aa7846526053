package widget

import (
	"fmt"

	"github.com/wojo-o/inker-sub001/internal/domain"
)

// Pure decoration widgets: no I/O, no device state.

func (r *Registry) divider(w domain.Widget) Fragment {
	cfg := w.DividerConfig()
	if cfg.Vertical {
		return Fragment{
			HTML: fmt.Sprintf(`<div class="w-divider" style="width:%dpx;height:100%%;background:%s;margin:0 auto"></div>`,
				cfg.Thickness, esc(cfg.Color)),
		}
	}
	return Fragment{
		HTML: fmt.Sprintf(`<div class="w-divider" style="height:%dpx;width:100%%;background:%s;margin:auto 0"></div>`,
			cfg.Thickness, esc(cfg.Color)),
	}
}

func (r *Registry) rectangle(w domain.Widget) Fragment {
	cfg := w.RectangleConfig()
	return Fragment{
		HTML: fmt.Sprintf(
			`<div class="w-rect" style="width:100%%;height:100%%;background:%s;border:%dpx solid %s;border-radius:%dpx"></div>`,
			esc(cfg.Fill), cfg.BorderWidth, esc(cfg.Border), cfg.Radius),
	}
}
