package domain

import "time"

// ScreenDesign is a canvas of positioned widgets rendered to a single
// e-ink bitmap. The rendering core receives it as a read-only snapshot;
// mutations go through the design service.
type ScreenDesign struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Background string    `json:"background"` // CSS color, e.g. "#ffffff"
	Widgets    []Widget  `json:"widgets"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type WidgetKind string

const (
	KindClock      WidgetKind = "clock"
	KindDate       WidgetKind = "date"
	KindWeather    WidgetKind = "weather"
	KindQRCode     WidgetKind = "qrcode"
	KindBattery    WidgetKind = "battery"
	KindWiFi       WidgetKind = "wifi"
	KindDeviceInfo WidgetKind = "deviceinfo"
	KindImage      WidgetKind = "image"
	KindCountdown  WidgetKind = "countdown"
	KindDaysUntil  WidgetKind = "daysuntil"
	KindDivider    WidgetKind = "divider"
	KindRectangle  WidgetKind = "rectangle"
	KindGitHub     WidgetKind = "github"
	KindCustom     WidgetKind = "custom"
)

// Widget is one positioned element on a design. The rect may legally
// extend past the design bounds; the composer clips it at the canvas edge.
type Widget struct {
	ID        string     `json:"id"`
	DesignID  string     `json:"designId"`
	Kind      WidgetKind `json:"kind"`
	X         int        `json:"x"`
	Y         int        `json:"y"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Rotation  float64    `json:"rotation"` // degrees, about the widget center
	ZIndex    int        `json:"zIndex"`
	Config    string     `json:"config"` // per-kind JSON object, open map
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// DeviceContext carries live device state for device-targeted renders.
// Absent fields render as placeholders, never as errors.
type DeviceContext struct {
	Battery    *int   `json:"battery,omitempty"` // 0-100
	WiFiDBm    *int   `json:"wifiDbm,omitempty"`
	DeviceName string `json:"deviceName"`
	Firmware   string `json:"firmware"`
	MAC        string `json:"mac"`
}

// Device is a registered e-ink display in the fleet.
type Device struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	MAC            string    `json:"mac"`
	DesignID       string    `json:"designId"` // assigned design, may be empty
	Firmware       string    `json:"firmware"`
	Battery        *int      `json:"battery,omitempty"`
	WiFiDBm        *int      `json:"wifiDbm,omitempty"`
	RefreshPending bool      `json:"refreshPending"`
	LastSeenAt     time.Time `json:"lastSeenAt"`
}

// Context returns the render-time device context for this device.
func (d *Device) Context() *DeviceContext {
	return &DeviceContext{
		Battery:    d.Battery,
		WiFiDBm:    d.WiFiDBm,
		DeviceName: d.Name,
		Firmware:   d.Firmware,
		MAC:        d.MAC,
	}
}

type DesignStore interface {
	CreateDesign(d *ScreenDesign) error
	GetDesign(id string) (*ScreenDesign, error)
	ListDesigns() ([]ScreenDesign, error)
	UpdateDesign(d *ScreenDesign) error
	DeleteDesign(id string) error

	AddWidget(w *Widget) error
	UpdateWidget(w *Widget) error
	DeleteWidget(id string) (designID string, err error)
}
