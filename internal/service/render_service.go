package service

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/wojo-o/inker-sub001/internal/cache"
	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/eink"
	"github.com/wojo-o/inker-sub001/internal/imaging"
	"github.com/wojo-o/inker-sub001/internal/overlay"
	"github.com/wojo-o/inker-sub001/internal/scene"
	"github.com/wojo-o/inker-sub001/internal/widget"
)

// ─────────────────────────────────────────────────────────────
// Render Service — design to final image bytes
// ─────────────────────────────────────────────────────────────

// Rasterizer turns a composed scene into a raster at the scene's exact
// dimensions. The browser session implements this; tests substitute a
// fake.
type Rasterizer interface {
	Rasterize(ctx context.Context, sc scene.Scene) (image.Image, error)
}

// CustomWidgetChecker verifies a custom widget exists before a render
// is attempted.
type CustomWidgetChecker interface {
	GetCustomWidget(id string) (*domain.CustomWidget, error)
}

// RenderService runs the full pipeline: load design, generate widget
// fragments, compose, rasterize, composite the drawing layer, then
// post-process for the requested mode.
type RenderService struct {
	designs    domain.DesignStore
	registry   *widget.Registry
	rasterizer Rasterizer
	drawings   *overlay.DrawingStore
	captures   *cache.CaptureCache
	custom     CustomWidgetChecker
}

func NewRenderService(
	designs domain.DesignStore,
	registry *widget.Registry,
	rasterizer Rasterizer,
	drawings *overlay.DrawingStore,
	captures *cache.CaptureCache,
	custom CustomWidgetChecker,
) *RenderService {
	return &RenderService{
		designs:    designs,
		registry:   registry,
		rasterizer: rasterizer,
		drawings:   drawings,
		captures:   captures,
		custom:     custom,
	}
}

// RenderDesign produces the final image bytes for a design in the
// given mode. Device-mode output is served from the capture cache when
// the design has not changed since the last render; cache misses run
// the full pipeline and repopulate the cache.
func (s *RenderService) RenderDesign(ctx context.Context, designID string, mode domain.RenderMode, dev *domain.DeviceContext) ([]byte, error) {
	if mode == domain.ModeDevice {
		if data, ok := s.captures.Get(designID); ok {
			return data, nil
		}
	}

	img, err := s.renderRaster(ctx, designID, dev)
	if err != nil {
		return nil, err
	}

	data, err := eink.Process(img, mode)
	if err != nil {
		return nil, fmt.Errorf("process render: %w", err)
	}

	if mode == domain.ModeDevice {
		if err := s.captures.Put(designID, data); err != nil {
			log.Printf("render: cache capture for %s: %v", designID, err)
		}
	}
	return data, nil
}

// RenderPreviewThumbnail renders the design in preview mode and scales
// it down for list views.
func (s *RenderService) RenderPreviewThumbnail(ctx context.Context, designID string) ([]byte, error) {
	img, err := s.renderRaster(ctx, designID, nil)
	if err != nil {
		return nil, err
	}
	thumb := imaging.Thumbnail(img, imaging.ThumbnailMaxWidth)
	return eink.EncodePNG(thumb)
}

// ProcessUploadedImage runs a standalone image through the e-ink
// pipeline with the upload constants.
func (s *RenderService) ProcessUploadedImage(data []byte) ([]byte, error) {
	return eink.ProcessUpload(data)
}

// renderRaster runs the shared front half of the pipeline and returns
// the composited raster, drawing layer included.
func (s *RenderService) renderRaster(ctx context.Context, designID string, dev *domain.DeviceContext) (image.Image, error) {
	d, err := s.designs.GetDesign(designID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCustomWidgets(d); err != nil {
		return nil, err
	}

	fragments := s.generateFragments(ctx, d, dev)
	sc := scene.Compose(d, fragments)

	img, err := s.rasterizer.Rasterize(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("rasterize design %s: %w", designID, err)
	}

	drawing, ok, err := s.drawings.Load(designID)
	if err != nil {
		log.Printf("render: drawing layer for %s unreadable, skipping: %v", designID, err)
	} else if ok {
		img = overlay.Composite(img, drawing)
	}
	return img, nil
}

// checkCustomWidgets fails fast when a widget references a custom
// widget that no longer exists. A widget-level fetch failure degrades
// to a placeholder during generation, but a dangling reference is a
// caller error and is reported before any rendering starts.
func (s *RenderService) checkCustomWidgets(d *domain.ScreenDesign) error {
	if s.custom == nil {
		return nil
	}
	for _, w := range d.Widgets {
		if w.Kind != domain.KindCustom {
			continue
		}
		cfg := w.CustomConfig()
		if cfg.WidgetID == "" {
			continue
		}
		if _, err := s.custom.GetCustomWidget(cfg.WidgetID); err != nil {
			return fmt.Errorf("widget %s references custom widget %s: %w", w.ID, cfg.WidgetID, err)
		}
	}
	return nil
}

// generateFragments runs all widget generators concurrently. Each
// generator degrades to a placeholder on its own, so one slow or
// broken widget never blocks or fails the others.
func (s *RenderService) generateFragments(ctx context.Context, d *domain.ScreenDesign, dev *domain.DeviceContext) map[string]widget.Fragment {
	fragments := make([]widget.Fragment, len(d.Widgets))
	var wg sync.WaitGroup
	for i, w := range d.Widgets {
		wg.Add(1)
		go func(i int, w domain.Widget) {
			defer wg.Done()
			fragments[i] = s.registry.Generate(ctx, w, dev)
		}(i, w)
	}
	wg.Wait()

	byID := make(map[string]widget.Fragment, len(d.Widgets))
	for i, w := range d.Widgets {
		byID[w.ID] = fragments[i]
	}
	return byID
}
