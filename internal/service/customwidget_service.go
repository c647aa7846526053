package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/wojo-o/inker-sub001/internal/cache"
	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Custom Widget Service — externally supplied content
// ─────────────────────────────────────────────────────────────

// DesignLocator finds the designs whose widgets reference a custom
// widget, so their captures can be invalidated on a content push.
type DesignLocator interface {
	DesignsReferencingCustomWidget(customWidgetID string) ([]string, error)
}

// CustomWidgetService manages content slots that external callers push
// pre-rendered data into.
type CustomWidgetService struct {
	store    *storage.CustomWidgetStore
	designs  DesignLocator
	captures *cache.CaptureCache
	notifier Notifier
}

func NewCustomWidgetService(store *storage.CustomWidgetStore, designs DesignLocator, captures *cache.CaptureCache, notifier Notifier) *CustomWidgetService {
	return &CustomWidgetService{store: store, designs: designs, captures: captures, notifier: notifier}
}

// CreateCustomWidget registers a new content slot.
func (s *CustomWidgetService) CreateCustomWidget(name, content string) (*domain.CustomWidget, error) {
	if content == "" {
		content = `""`
	}
	cw := &domain.CustomWidget{
		ID:      uuid.NewString(),
		Name:    name,
		Content: content,
	}
	if err := s.store.CreateCustomWidget(cw); err != nil {
		return nil, fmt.Errorf("create custom widget: %w", err)
	}
	return cw, nil
}

func (s *CustomWidgetService) GetCustomWidget(id string) (*domain.CustomWidget, error) {
	return s.store.GetCustomWidget(id)
}

// PushContent replaces the slot's content and invalidates every design
// currently showing it.
func (s *CustomWidgetService) PushContent(id, content string) error {
	if _, err := s.store.GetCustomWidget(id); err != nil {
		return err
	}
	if err := s.store.UpdateContent(id, content); err != nil {
		return fmt.Errorf("update custom widget content: %w", err)
	}
	s.invalidateReferencing(id)
	return nil
}

func (s *CustomWidgetService) DeleteCustomWidget(id string) error {
	if err := s.store.DeleteCustomWidget(id); err != nil {
		return err
	}
	s.invalidateReferencing(id)
	return nil
}

func (s *CustomWidgetService) invalidateReferencing(customWidgetID string) {
	designIDs, err := s.designs.DesignsReferencingCustomWidget(customWidgetID)
	if err != nil {
		log.Printf("customwidget: locate designs for %s: %v", customWidgetID, err)
		return
	}
	for _, designID := range designIDs {
		if err := s.captures.Invalidate(designID); err != nil {
			log.Printf("customwidget: invalidate capture for %s: %v", designID, err)
		}
		if s.notifier != nil {
			if _, err := s.notifier.DesignChanged(designID); err != nil {
				log.Printf("customwidget: notify devices for %s: %v", designID, err)
			}
		}
	}
}
