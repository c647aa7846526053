package widget

import (
	"context"
	"fmt"
	"log"

	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/fetch"
)

// Time-of-day buckets map to fixed hour indices into the provider's
// hourly forecast arrays.
var bucketHours = map[string]int{
	"morning":   8,
	"noon":      12,
	"afternoon": 15,
	"evening":   18,
	"night":     21,
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
	Hourly struct {
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"hourly"`
}

// weather renders a forecast for the configured location. Provider
// failure degrades to the location name with an "unavailable" marker —
// the render itself always completes.
func (r *Registry) weather(ctx context.Context, w domain.Widget) Fragment {
	cfg := w.WeatherConfig()

	temp, code, err := r.forecast(ctx, cfg)
	if err != nil {
		log.Printf("widget: weather %s unavailable: %v", w.ID, err)
		return weatherUnavailable(cfg)
	}

	return Fragment{
		HTML: fmt.Sprintf(
			`<div class="w-stack"><div class="w-label">%s</div><div class="w-value" style="font-size:%dpx">%.0f&deg;</div><div class="w-label">%s</div></div>`,
			esc(cfg.Location), cfg.FontSize, temp, esc(weatherDescription(code))),
	}
}

func (r *Registry) forecast(ctx context.Context, cfg domain.WeatherConfig) (float64, int, error) {
	url := fmt.Sprintf(
		"https://api.open-meteo.com/v1/forecast?latitude=%.4f&longitude=%.4f&current_weather=true&hourly=temperature_2m,weather_code&forecast_days=%d&timezone=UTC",
		cfg.Latitude, cfg.Longitude, cfg.DayOffset+1)

	var resp forecastResponse
	if err := fetch.JSON(ctx, r.fetcher, url, nil, &resp); err != nil {
		return 0, 0, err
	}

	hour, ok := bucketHours[cfg.TimeOfDay]
	if !ok {
		// "current" and anything unrecognized use the live reading.
		return resp.CurrentWeather.Temperature, resp.CurrentWeather.WeatherCode, nil
	}

	idx := cfg.DayOffset*24 + hour
	if idx < 0 || idx >= len(resp.Hourly.Temperature) || idx >= len(resp.Hourly.WeatherCode) {
		return 0, 0, fmt.Errorf("forecast index %d out of range (%d hours)", idx, len(resp.Hourly.Temperature))
	}
	return resp.Hourly.Temperature[idx], resp.Hourly.WeatherCode[idx], nil
}

func weatherUnavailable(cfg domain.WeatherConfig) Fragment {
	return Fragment{
		HTML: fmt.Sprintf(
			`<div class="w-stack"><div class="w-label">%s</div><div class="w-value">unavailable</div></div>`,
			esc(cfg.Location)),
	}
}

// weatherDescription maps WMO weather codes to short display text.
func weatherDescription(code int) string {
	switch {
	case code == 0:
		return "Clear"
	case code <= 3:
		return "Partly cloudy"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 57:
		return "Drizzle"
	case code >= 61 && code <= 67:
		return "Rain"
	case code >= 71 && code <= 77:
		return "Snow"
	case code >= 80 && code <= 82:
		return "Showers"
	case code >= 85 && code <= 86:
		return "Snow showers"
	case code >= 95:
		return "Thunderstorm"
	default:
		return "Cloudy"
	}
}
