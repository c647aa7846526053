package widget

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/imaging"
)

// custom maps the resolver's generic content shapes into a fragment.
// Grid and list shapes support nested image fields; each is fetched and
// normalized independently and in parallel, with a per-cell fallback.
func (r *Registry) custom(ctx context.Context, w domain.Widget) (Fragment, error) {
	cfg := w.CustomConfig()
	if cfg.WidgetID == "" {
		return Fragment{}, fmt.Errorf("custom widget %s has no widgetId", w.ID)
	}
	if r.resolver == nil {
		return Fragment{}, fmt.Errorf("no custom widget resolver configured")
	}

	content, err := r.resolver.GetRenderedContent(ctx, cfg.WidgetID)
	if err != nil {
		return Fragment{}, fmt.Errorf("resolve custom widget %s: %w", cfg.WidgetID, err)
	}

	switch {
	case content.Grid != nil:
		return r.customGrid(ctx, content.Grid, cfg.FontSize), nil
	case content.LabelValue != nil:
		return labelValueFragment(content.LabelValue.Label, content.LabelValue.Value, cfg.FontSize), nil
	case content.List != nil:
		var b strings.Builder
		b.WriteString(`<ul class="w-list">`)
		for _, item := range content.List {
			fmt.Fprintf(&b, `<li style="font-size:%dpx">%s</li>`, cfg.FontSize, esc(item))
		}
		b.WriteString(`</ul>`)
		return Fragment{HTML: b.String()}, nil
	default:
		return textFragment(content.Text, cfg.FontSize), nil
	}
}

// gridCellImageSize bounds the placeholder tile drawn for a cell whose
// image could not be fetched.
const (
	gridCellImageW = 120
	gridCellImageH = 80
)

func (r *Registry) customGrid(ctx context.Context, g *domain.Grid, fontSize int) Fragment {
	// Resolve all image cells concurrently before assembling markup.
	images := make([]string, len(g.Cells))
	var wg sync.WaitGroup
	for i, cell := range g.Cells {
		if cell.FieldType != "image" {
			continue
		}
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			uri, err := imaging.FetchNormalized(ctx, r.fetcher, source)
			if err != nil {
				log.Printf("widget: grid cell image %q failed, using placeholder: %v", source, err)
				uri = imaging.PlaceholderURI(gridCellImageW, gridCellImageH, "unavailable")
			}
			images[i] = uri
		}(i, cell.Value)
	}
	wg.Wait()

	gap := g.Gap
	if gap < 0 {
		gap = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="w-grid" style="grid-template-columns:repeat(%d,1fr);gap:%dpx">`, max(g.Cols, 1), gap)
	for i, cell := range g.Cells {
		fmt.Fprintf(&b, `<div class="w-cell" style="grid-row:%d;grid-column:%d;text-align:%s;justify-content:%s">`,
			cell.Row+1, cell.Col+1, cellAlign(cell.Align), cellVAlign(cell.VerticalAlign))
		if cell.Label != "" {
			fmt.Fprintf(&b, `<div class="w-label">%s</div>`, esc(cell.Label))
		}
		if cell.FieldType == "image" {
			fmt.Fprintf(&b, `<img class="w-img" src="%s" alt="%s">`, images[i], esc(cell.Field))
		} else {
			value := cell.FormattedValue
			if value == "" {
				value = cell.Value
			}
			fmt.Fprintf(&b, `<div class="w-value" style="font-size:%dpx">%s</div>`, fontSize, esc(value))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return Fragment{HTML: b.String()}
}

func cellAlign(a string) string {
	switch a {
	case "center", "right":
		return a
	default:
		return "left"
	}
}

func cellVAlign(a string) string {
	switch a {
	case "middle", "center":
		return "center"
	case "bottom":
		return "flex-end"
	default:
		return "flex-start"
	}
}
