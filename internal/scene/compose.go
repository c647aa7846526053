// Package scene assembles widget fragments into one positioned HTML
// document at the design's declared pixel dimensions. Composition is
// pure data assembly: given fixed fragments, the output is
// deterministic, which makes this the natural boundary for snapshot
// tests.
package scene

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/widget"
)

// Scene is the fully composed representation of a design, ready for
// rasterization.
type Scene struct {
	HTML   string
	Width  int
	Height int
}

// baseCSS is the shared stylesheet for all designs. The canvas div
// clips at its own boundary, so widget geometry crossing the edge is
// simply not visible — never an error.
const baseCSS = `*{margin:0;padding:0;box-sizing:border-box}
html,body{width:100%;height:100%}
body{font-family:"DejaVu Sans","Liberation Sans",Arial,sans-serif;-webkit-font-smoothing:none}
.canvas{position:relative;overflow:hidden}
.widget{position:absolute;display:flex;align-items:center;justify-content:center;overflow:hidden}
.w-text{width:100%;text-align:center}
.w-stack{display:flex;flex-direction:column;align-items:center;gap:2px;width:100%}
.w-label{font-size:14px;text-transform:uppercase;letter-spacing:1px}
.w-value{font-weight:bold}
.w-img{max-width:100%;max-height:100%}
.w-list{list-style:none;width:100%}
.w-grid{display:grid;width:100%;height:100%}
.w-cell{display:flex;flex-direction:column;overflow:hidden}
.w-placeholder{width:100%;height:100%;display:flex;align-items:center;justify-content:center;border:2px dashed #999;color:#666;font-size:14px}`

// Compose builds the scene document: background first, then each
// widget at its rect, rotated about its own center, stacked by z-index
// with ties preserving original list order.
func Compose(d *domain.ScreenDesign, fragments map[string]widget.Fragment) Scene {
	widgets := make([]domain.Widget, len(d.Widgets))
	copy(widgets, d.Widgets)
	sort.SliceStable(widgets, func(i, j int) bool {
		return widgets[i].ZIndex < widgets[j].ZIndex
	})

	background := d.Background
	if background == "" {
		background = "#ffffff"
	}

	var extraCSS strings.Builder
	var body strings.Builder
	// background comes from stored design data; escape it like any
	// other user-supplied attribute value
	fmt.Fprintf(&body, `<div class="canvas" style="width:%dpx;height:%dpx;background:%s">`,
		d.Width, d.Height, html.EscapeString(background))

	for _, w := range widgets {
		frag := fragments[w.ID]
		style := fmt.Sprintf("left:%dpx;top:%dpx;width:%dpx;height:%dpx;z-index:%d", w.X, w.Y, w.Width, w.Height, w.ZIndex)
		if w.Rotation != 0 {
			style += fmt.Sprintf(";transform:rotate(%gdeg);transform-origin:center center", w.Rotation)
		}
		fmt.Fprintf(&body, `<div class="widget" data-kind="%s" style="%s">%s</div>`, w.Kind, style, frag.HTML)
		if frag.CSS != "" {
			extraCSS.WriteString(frag.CSS)
			extraCSS.WriteString("\n")
		}
	}
	body.WriteString(`</div>`)

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><style>")
	doc.WriteString(baseCSS)
	if extraCSS.Len() > 0 {
		doc.WriteString("\n")
		doc.WriteString(extraCSS.String())
	}
	doc.WriteString("</style></head><body>")
	doc.WriteString(body.String())
	doc.WriteString("</body></html>")

	return Scene{HTML: doc.String(), Width: d.Width, Height: d.Height}
}
