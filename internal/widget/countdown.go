package widget

import (
	"fmt"
	"math"
	"time"

	"github.com/wojo-o/inker-sub001/internal/domain"
)

var countdownLayouts = []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

// countdown renders the remaining time to a target instant. A target in
// the past renders "expired", never a negative duration.
func (r *Registry) countdown(w domain.Widget) Fragment {
	cfg := w.CountdownConfig()
	loc := r.zone(cfg.Timezone)

	target, err := parseInLocation(cfg.Target, loc)
	if err != nil {
		return placeholderFragment("countdown")
	}

	remaining := target.Sub(r.now().In(loc))
	if remaining <= 0 {
		return labelValueFragment(cfg.Label, "expired", cfg.FontSize)
	}

	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) % 24
	mins := int(remaining.Minutes()) % 60

	var text string
	switch {
	case days > 0:
		text = fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		text = fmt.Sprintf("%dh %dm", hours, mins)
	default:
		text = fmt.Sprintf("%dm", mins)
	}
	return labelValueFragment(cfg.Label, text, cfg.FontSize)
}

// daysUntil renders whole days to a target date. Past dates show the
// absolute day count with an "ago" marker.
func (r *Registry) daysUntil(w domain.Widget) Fragment {
	cfg := w.DaysUntilConfig()
	loc := r.zone(cfg.Timezone)

	target, err := parseInLocation(cfg.Target, loc)
	if err != nil {
		return placeholderFragment("daysuntil")
	}

	now := r.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	targetDay := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, loc)

	days := int(math.Round(targetDay.Sub(today).Hours() / 24))
	value := fmt.Sprintf("%d days", days)
	if days < 0 {
		value = fmt.Sprintf("%d days ago", -days)
	} else if days == 1 {
		value = "1 day"
	}
	return labelValueFragment(cfg.Label, value, cfg.FontSize)
}

func parseInLocation(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range countdownLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized target date %q", value)
}
