// Package widget turns widget configurations plus optional live device
// data into renderable content fragments. Generators are pure except
// for outbound fetches made through the injected fetcher; a single
// widget's failure degrades to a placeholder fragment and never aborts
// the rest of the render.
package widget

import (
	"fmt"
	"html"
)

// Fragment is the output of one widget's content generation step: inner
// HTML placed by the layout composer at the widget's rect, plus any
// extra style rules the fragment needs.
type Fragment struct {
	HTML string
	CSS  string
}

func esc(s string) string {
	return html.EscapeString(s)
}

// textFragment renders centered text at the given size.
func textFragment(text string, fontSize int) Fragment {
	return Fragment{
		HTML: fmt.Sprintf(`<div class="w-text" style="font-size:%dpx">%s</div>`, fontSize, esc(text)),
	}
}

// labelValueFragment renders a small label above a prominent value.
func labelValueFragment(label, value string, fontSize int) Fragment {
	return Fragment{
		HTML: fmt.Sprintf(
			`<div class="w-stack"><div class="w-label">%s</div><div class="w-value" style="font-size:%dpx">%s</div></div>`,
			esc(label), fontSize, esc(value)),
	}
}

// placeholderFragment stands in for a widget whose generator failed.
func placeholderFragment(label string) Fragment {
	return Fragment{
		HTML: fmt.Sprintf(`<div class="w-placeholder">%s</div>`, esc(label)),
	}
}
