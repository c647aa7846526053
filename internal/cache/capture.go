package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// CaptureCache stores the last successfully produced device-mode image
// per design, as files under dir. Invalidation is eager: any design
// mutation deletes the file so stale output is never served.
type CaptureCache struct {
	dir string
}

func NewCaptureCache(dir string) (*CaptureCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create capture dir: %w", err)
	}
	return &CaptureCache{dir: dir}, nil
}

func (c *CaptureCache) path(designID string) string {
	return filepath.Join(c.dir, designID+".png")
}

// Get returns the cached capture for a design, if present.
func (c *CaptureCache) Get(designID string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(designID))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *CaptureCache) Put(designID string, data []byte) error {
	if err := os.WriteFile(c.path(designID), data, 0644); err != nil {
		return fmt.Errorf("write capture: %w", err)
	}
	return nil
}

// Invalidate removes the cached capture. A delete-then-miss is not an
// error.
func (c *CaptureCache) Invalidate(designID string) error {
	err := os.Remove(c.path(designID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("invalidate capture: %w", err)
	}
	return nil
}
