package overlay

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ChangedHandler is called with the design id whose drawing changed.
type ChangedHandler func(designID string)

// Watcher invalidates downstream caches when a drawing file is written,
// created or removed out-of-band (e.g. by an annotation tool writing
// directly into the drawings directory).
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange ChangedHandler
}

// Watch starts watching the drawing store's directory.
func Watch(store *DrawingStore, onChange ChangedHandler) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(store.Dir()); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch drawings dir: %w", err)
	}

	w := &Watcher{watcher: fw, onChange: onChange}
	go w.watchLoop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Base(event.Name)
			if !strings.HasSuffix(name, ".png") {
				continue
			}
			designID := strings.TrimSuffix(name, ".png")
			if w.onChange != nil {
				w.onChange(designID)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("overlay watcher: %v", err)
		}
	}
}
