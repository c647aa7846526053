package widget

import (
	"github.com/wojo-o/inker-sub001/internal/domain"
)

func (r *Registry) clock(w domain.Widget) Fragment {
	cfg := w.ClockConfig()
	layout := cfg.Format
	if layout == "" {
		layout = "15:04"
		if cfg.ShowSeconds {
			layout = "15:04:05"
		}
	}
	text := r.now().In(r.zone(cfg.Timezone)).Format(layout)
	return textFragment(text, cfg.FontSize)
}

func (r *Registry) date(w domain.Widget) Fragment {
	cfg := w.DateConfig()
	text := r.now().In(r.zone(cfg.Timezone)).Format(cfg.Format)
	return textFragment(text, cfg.FontSize)
}
