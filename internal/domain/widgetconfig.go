package domain

import (
	"encoding/json"
	"strings"
)

// Per-kind widget configs. Stored as open JSON maps; decoding is
// tolerant: unknown keys are ignored, missing keys take defaults, and a
// malformed document yields the default config rather than an error.

type ClockConfig struct {
	Timezone    string `json:"timezone"`
	Format      string `json:"format"` // Go time layout; empty = derived from showSeconds
	ShowSeconds bool   `json:"showSeconds"`
	FontSize    int    `json:"fontSize"`
}

type DateConfig struct {
	Timezone string `json:"timezone"`
	Format   string `json:"format"`
	FontSize int    `json:"fontSize"`
}

type WeatherConfig struct {
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	DayOffset int     `json:"dayOffset"` // 0 = today
	TimeOfDay string  `json:"timeOfDay"` // current|morning|noon|afternoon|evening|night
	FontSize  int     `json:"fontSize"`
}

type QRCodeConfig struct {
	Content string `json:"content"`
}

type BatteryConfig struct {
	ShowPercent bool `json:"showPercent"`
	FontSize    int  `json:"fontSize"`
}

type WiFiConfig struct {
	FontSize int `json:"fontSize"`
}

type DeviceInfoConfig struct {
	Field    string `json:"field"` // name|firmware|mac
	FontSize int    `json:"fontSize"`
}

type ImageConfig struct {
	Source string `json:"source"` // local path or http(s) URL
	Fit    string `json:"fit"`    // contain|cover|fill
}

type CountdownConfig struct {
	Target   string `json:"target"` // "2006-01-02T15:04"
	Label    string `json:"label"`
	Timezone string `json:"timezone"`
	FontSize int    `json:"fontSize"`
}

type DaysUntilConfig struct {
	Target   string `json:"target"` // "2006-01-02"
	Label    string `json:"label"`
	Timezone string `json:"timezone"`
	FontSize int    `json:"fontSize"`
}

type DividerConfig struct {
	Thickness int    `json:"thickness"`
	Color     string `json:"color"`
	Vertical  bool   `json:"vertical"`
}

type RectangleConfig struct {
	Fill        string `json:"fill"`
	Border      string `json:"border"`
	BorderWidth int    `json:"borderWidth"`
	Radius      int    `json:"radius"`
}

type GitHubConfig struct {
	Repo     string `json:"repo"` // "owner/repo"
	Label    string `json:"label"`
	FontSize int    `json:"fontSize"`
}

type CustomConfig struct {
	WidgetID string `json:"widgetId"`
	FontSize int    `json:"fontSize"`
}

// decodeConfig fills v from the widget's raw config JSON. Extra keys are
// ignored and decode failures leave v at its zero value.
func decodeConfig(raw string, v any) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), v)
}

func (w Widget) ClockConfig() ClockConfig {
	var c ClockConfig
	decodeConfig(w.Config, &c)
	if c.FontSize <= 0 {
		c.FontSize = 48
	}
	return c
}

func (w Widget) DateConfig() DateConfig {
	var c DateConfig
	decodeConfig(w.Config, &c)
	if c.Format == "" {
		c.Format = "Monday, January 2"
	}
	if c.FontSize <= 0 {
		c.FontSize = 28
	}
	return c
}

func (w Widget) WeatherConfig() WeatherConfig {
	var c WeatherConfig
	decodeConfig(w.Config, &c)
	if c.DayOffset < 0 {
		c.DayOffset = 0
	}
	if c.TimeOfDay == "" {
		c.TimeOfDay = "current"
	}
	if c.FontSize <= 0 {
		c.FontSize = 24
	}
	return c
}

func (w Widget) QRCodeConfig() QRCodeConfig {
	var c QRCodeConfig
	decodeConfig(w.Config, &c)
	return c
}

func (w Widget) BatteryConfig() BatteryConfig {
	c := BatteryConfig{ShowPercent: true}
	decodeConfig(w.Config, &c)
	if c.FontSize <= 0 {
		c.FontSize = 20
	}
	return c
}

func (w Widget) WiFiConfig() WiFiConfig {
	var c WiFiConfig
	decodeConfig(w.Config, &c)
	if c.FontSize <= 0 {
		c.FontSize = 20
	}
	return c
}

func (w Widget) DeviceInfoConfig() DeviceInfoConfig {
	var c DeviceInfoConfig
	decodeConfig(w.Config, &c)
	if c.Field == "" {
		c.Field = "name"
	}
	if c.FontSize <= 0 {
		c.FontSize = 20
	}
	return c
}

func (w Widget) ImageConfig() ImageConfig {
	var c ImageConfig
	decodeConfig(w.Config, &c)
	if c.Fit == "" {
		c.Fit = "contain"
	}
	return c
}

func (w Widget) CountdownConfig() CountdownConfig {
	var c CountdownConfig
	decodeConfig(w.Config, &c)
	if c.FontSize <= 0 {
		c.FontSize = 32
	}
	return c
}

func (w Widget) DaysUntilConfig() DaysUntilConfig {
	var c DaysUntilConfig
	decodeConfig(w.Config, &c)
	if c.FontSize <= 0 {
		c.FontSize = 32
	}
	return c
}

func (w Widget) DividerConfig() DividerConfig {
	var c DividerConfig
	decodeConfig(w.Config, &c)
	if c.Thickness <= 0 {
		c.Thickness = 2
	}
	if c.Color == "" {
		c.Color = "#000000"
	}
	return c
}

func (w Widget) RectangleConfig() RectangleConfig {
	var c RectangleConfig
	decodeConfig(w.Config, &c)
	if c.Border == "" {
		c.Border = "#000000"
	}
	if c.Fill == "" {
		c.Fill = "transparent"
	}
	if c.BorderWidth < 0 {
		c.BorderWidth = 0
	}
	return c
}

func (w Widget) GitHubConfig() GitHubConfig {
	var c GitHubConfig
	decodeConfig(w.Config, &c)
	if c.FontSize <= 0 {
		c.FontSize = 24
	}
	return c
}

func (w Widget) CustomConfig() CustomConfig {
	var c CustomConfig
	decodeConfig(w.Config, &c)
	if c.FontSize <= 0 {
		c.FontSize = 20
	}
	return c
}
