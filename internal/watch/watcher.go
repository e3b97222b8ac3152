// Package watch re-runs extraction when Cursor's databases change on disk.
package watch

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher emits the path of any Cursor database file that changes under the
// watched roots.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan string
}

// New watches every directory under roots. Roots that are files get their
// containing directory watched instead.
func New(roots []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		events:  make(chan string, 100),
	}

	added := make(map[string]bool)
	for _, root := range roots {
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
		if err := w.addTree(root, added); err != nil {
			fw.Close()
			return nil, err
		}
	}

	go w.processEvents()
	return w, nil
}

func (w *Watcher) addTree(root string, added map[string]bool) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() || added[path] {
			return nil
		}
		added[path] = true
		return w.watcher.Add(path)
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// fsnotify is not recursive: directories created while
			// running (a new workspaceStorage hash) must be added here
			// or their databases are never seen.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name, map[string]bool{}); err != nil {
						log.Printf("[watch] adding %s: %v", event.Name, err)
					}
				}
			}
			if isDatabaseEvent(event.Name) {
				select {
				case w.events <- event.Name:
				default: // drop when the consumer is behind
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watch] %v", err)
		}
	}
}

// isDatabaseEvent matches database files and their SQLite journal siblings
// (state.vscdb-wal and friends), which is what actually changes during use.
func isDatabaseEvent(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".vscdb") || strings.Contains(base, ".db")
}

// Events is the stream of changed database paths.
func (w *Watcher) Events() <-chan string {
	return w.events
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
