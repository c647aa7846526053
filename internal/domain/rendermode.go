package domain

// RenderMode selects which post-processing branch is applied to a raster.
type RenderMode int

const (
	// ModeDevice is the true device output: full e-ink processing with
	// color inversion (the hardware expects inverted polarity).
	ModeDevice RenderMode = iota
	// ModePreview returns the raw composited raster, no e-ink processing.
	ModePreview
	// ModeEinkPreview applies full e-ink processing without inversion,
	// a pixel-accurate preview of the device look on a normal display.
	ModeEinkPreview
)

// ParseRenderMode maps a query/config string to a RenderMode.
// Unknown values fall back to ModePreview.
func ParseRenderMode(s string) RenderMode {
	switch s {
	case "device":
		return ModeDevice
	case "eink", "einkpreview", "eink-preview":
		return ModeEinkPreview
	default:
		return ModePreview
	}
}

func (m RenderMode) String() string {
	switch m {
	case ModeDevice:
		return "device"
	case ModeEinkPreview:
		return "eink-preview"
	default:
		return "preview"
	}
}
