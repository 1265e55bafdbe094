package assets

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/logger"
)

// Watcher reports changes to a single file. Pending events coalesce,
// so rapid editor saves produce one reload.
type Watcher struct {
	fw     *fsnotify.Watcher
	target string
	events chan string
}

// WatchFile starts watching one file for modification. The parent
// directory is watched rather than the file itself, because editors
// often replace files instead of writing in place.
func WatchFile(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:     fw,
		target: abs,
		events: make(chan string, 1),
	}
	go w.run()
	return w, nil
}

// Events delivers the changed path once per coalesced change burst.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close stops watching and releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != w.target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.events <- abs:
			default: // an event is already pending
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logger.Warn("model watch error", zap.Error(err))
		}
	}
}
