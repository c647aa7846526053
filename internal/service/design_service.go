package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/wojo-o/inker-sub001/internal/cache"
	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/overlay"
)

// ─────────────────────────────────────────────────────────────
// Design Service — business logic for screen designs
// ─────────────────────────────────────────────────────────────

// DesignService manages design and widget lifecycle. Every mutation
// invalidates the design's capture so device-mode renders never serve
// stale output, and notifies devices assigned to the design.
type DesignService struct {
	store    domain.DesignStore
	captures *cache.CaptureCache
	drawings *overlay.DrawingStore
	notifier Notifier
}

func NewDesignService(store domain.DesignStore, captures *cache.CaptureCache, drawings *overlay.DrawingStore, notifier Notifier) *DesignService {
	return &DesignService{store: store, captures: captures, drawings: drawings, notifier: notifier}
}

// CreateDesign creates an empty design.
func (s *DesignService) CreateDesign(name string, width, height int, background string) (*domain.ScreenDesign, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("design dimensions must be positive, got %dx%d", width, height)
	}
	d := &domain.ScreenDesign{
		ID:         uuid.NewString(),
		Name:       name,
		Width:      width,
		Height:     height,
		Background: background,
	}
	if err := s.store.CreateDesign(d); err != nil {
		return nil, fmt.Errorf("create design: %w", err)
	}
	return d, nil
}

// GetDesign returns a design with its widgets in paint order.
func (s *DesignService) GetDesign(id string) (*domain.ScreenDesign, error) {
	return s.store.GetDesign(id)
}

// ListDesigns returns all designs without their widgets.
func (s *DesignService) ListDesigns() ([]domain.ScreenDesign, error) {
	return s.store.ListDesigns()
}

// UpdateDesign updates design metadata and geometry.
func (s *DesignService) UpdateDesign(d *domain.ScreenDesign) error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("design dimensions must be positive, got %dx%d", d.Width, d.Height)
	}
	if err := s.store.UpdateDesign(d); err != nil {
		return err
	}
	s.changed(d.ID)
	return nil
}

// DeleteDesign removes a design with its widgets, capture and drawing
// layer.
func (s *DesignService) DeleteDesign(id string) error {
	if err := s.store.DeleteDesign(id); err != nil {
		return err
	}
	if err := s.captures.Invalidate(id); err != nil {
		log.Printf("design: invalidate capture for %s: %v", id, err)
	}
	if err := s.drawings.Delete(id); err != nil {
		log.Printf("design: delete drawing for %s: %v", id, err)
	}
	return nil
}

// AddWidget places a new widget on a design.
func (s *DesignService) AddWidget(designID string, kind domain.WidgetKind, x, y, width, height int, config string) (*domain.Widget, error) {
	w := &domain.Widget{
		ID:       uuid.NewString(),
		DesignID: designID,
		Kind:     kind,
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		Config:   config,
	}
	if err := s.store.AddWidget(w); err != nil {
		return nil, fmt.Errorf("add widget: %w", err)
	}
	s.changed(designID)
	return w, nil
}

// UpdateWidget updates a widget's geometry and config.
func (s *DesignService) UpdateWidget(w *domain.Widget) error {
	if err := s.store.UpdateWidget(w); err != nil {
		return err
	}
	s.changed(w.DesignID)
	return nil
}

// DeleteWidget removes a widget from its design.
func (s *DesignService) DeleteWidget(id string) error {
	designID, err := s.store.DeleteWidget(id)
	if err != nil {
		return err
	}
	s.changed(designID)
	return nil
}

// SaveDrawing stores the freehand drawing layer for a design.
func (s *DesignService) SaveDrawing(designID string, data []byte) error {
	if _, err := s.store.GetDesign(designID); err != nil {
		return err
	}
	if err := s.drawings.Save(designID, data); err != nil {
		return err
	}
	s.changed(designID)
	return nil
}

// DeleteDrawing removes the drawing layer for a design.
func (s *DesignService) DeleteDrawing(designID string) error {
	if err := s.drawings.Delete(designID); err != nil {
		return err
	}
	s.changed(designID)
	return nil
}

// changed invalidates the capture and flags assigned devices. Neither
// failure aborts the mutation that already committed; both are logged.
func (s *DesignService) changed(designID string) {
	if err := s.captures.Invalidate(designID); err != nil {
		log.Printf("design: invalidate capture for %s: %v", designID, err)
	}
	if s.notifier == nil {
		return
	}
	n, err := s.notifier.DesignChanged(designID)
	if err != nil {
		log.Printf("design: notify devices for %s: %v", designID, err)
	} else if n > 0 {
		log.Printf("design: %s changed, %d device(s) flagged for refresh", designID, n)
	}
}
