package widget

import (
	"context"
	"fmt"
	"log"

	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/imaging"
)

// image fetches and normalizes the configured source. Any failure
// renders a labeled placeholder tile instead of aborting the screen.
func (r *Registry) image(ctx context.Context, w domain.Widget) Fragment {
	cfg := w.ImageConfig()

	var uri string
	if cfg.Source == "" {
		uri = imaging.PlaceholderURI(w.Width, w.Height, "no image")
	} else if src, err := imaging.FetchNormalized(ctx, r.fetcher, cfg.Source); err != nil {
		log.Printf("widget: image %s failed, using placeholder: %v", w.ID, err)
		uri = imaging.PlaceholderURI(w.Width, w.Height, "image unavailable")
	} else {
		uri = src
	}

	fit := cfg.Fit
	switch fit {
	case "cover", "fill", "contain":
	default:
		fit = "contain"
	}

	return Fragment{
		HTML: fmt.Sprintf(`<img class="w-img" style="object-fit:%s" src="%s" alt="image">`, fit, uri),
	}
}
