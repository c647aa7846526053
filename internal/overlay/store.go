// Package overlay manages the optional freehand drawing layer that is
// persisted per design and composited over the widget raster before
// e-ink processing.
package overlay

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// DrawingStore keeps one transparent PNG per design id under dir. The
// drawing is mutated and deleted independently of the design, so
// existence is checked on every render — there is no cached
// "has drawing" flag.
type DrawingStore struct {
	dir string
}

func NewDrawingStore(dir string) (*DrawingStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create drawings dir: %w", err)
	}
	return &DrawingStore{dir: dir}, nil
}

// Dir returns the watched directory.
func (s *DrawingStore) Dir() string {
	return s.dir
}

func (s *DrawingStore) path(designID string) string {
	return filepath.Join(s.dir, designID+".png")
}

// Load returns the drawing for a design, or ok=false when none is
// stored. A decode failure of an existing file is a real error.
func (s *DrawingStore) Load(designID string) (image.Image, bool, error) {
	data, err := os.ReadFile(s.path(designID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read drawing: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode drawing %s: %w", designID, err)
	}
	return img, true, nil
}

// Save stores PNG bytes as the design's drawing layer.
func (s *DrawingStore) Save(designID string, data []byte) error {
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("drawing must be PNG: %w", err)
	}
	if err := os.WriteFile(s.path(designID), data, 0644); err != nil {
		return fmt.Errorf("write drawing: %w", err)
	}
	return nil
}

// Delete removes the drawing. Deleting a missing drawing is not an error.
func (s *DrawingStore) Delete(designID string) error {
	err := os.Remove(s.path(designID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete drawing: %w", err)
	}
	return nil
}
