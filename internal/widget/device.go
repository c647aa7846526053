package widget

import (
	"fmt"

	"github.com/wojo-o/inker-sub001/internal/domain"
)

// Device-state widgets render defined placeholders when the render is
// not device-targeted or a field is absent — never an error.

func (r *Registry) battery(w domain.Widget, dev *domain.DeviceContext) Fragment {
	cfg := w.BatteryConfig()
	if dev == nil || dev.Battery == nil {
		return textFragment("--%", cfg.FontSize)
	}
	pct := *dev.Battery
	text := batteryGlyph(pct)
	if cfg.ShowPercent {
		text = fmt.Sprintf("%s %d%%", batteryGlyph(pct), pct)
	}
	return textFragment(text, cfg.FontSize)
}

func batteryGlyph(pct int) string {
	switch {
	case pct >= 80:
		return "█"
	case pct >= 55:
		return "▆"
	case pct >= 30:
		return "▄"
	case pct >= 10:
		return "▂"
	default:
		return "▁"
	}
}

func (r *Registry) wifi(w domain.Widget, dev *domain.DeviceContext) Fragment {
	cfg := w.WiFiConfig()
	if dev == nil || dev.WiFiDBm == nil {
		return textFragment("--", cfg.FontSize)
	}
	return textFragment(wifiBars(*dev.WiFiDBm), cfg.FontSize)
}

// wifiBars maps RSSI in dBm onto a four-level signal glyph.
func wifiBars(dbm int) string {
	switch {
	case dbm >= -50:
		return "▂▄▆█"
	case dbm >= -60:
		return "▂▄▆"
	case dbm >= -70:
		return "▂▄"
	case dbm >= -80:
		return "▂"
	default:
		return "✕"
	}
}

func (r *Registry) deviceInfo(w domain.Widget, dev *domain.DeviceContext) Fragment {
	cfg := w.DeviceInfoConfig()
	value := "--"
	if dev != nil {
		switch cfg.Field {
		case "firmware":
			if dev.Firmware != "" {
				value = dev.Firmware
			}
		case "mac":
			if dev.MAC != "" {
				value = dev.MAC
			}
		default:
			if dev.DeviceName != "" {
				value = dev.DeviceName
			}
		}
	}
	return textFragment(value, cfg.FontSize)
}
