package lookup

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"span-mapper/internal/logger"
)

// DefaultDebounce is how long the watcher waits after the last change before
// reloading.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a dictionary file into a Holder whenever the file changes.
// A reload that fails leaves the previous dictionary live.
type Watcher struct {
	path     string
	holder   *Holder
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	onReload func(*Dictionary, error)
}

// NewWatcher watches path's directory (editors often replace files rather
// than write them in place) and reloads into holder.
func NewWatcher(path string, holder *Holder) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "failed to watch dictionary %s", path)
	}

	return &Watcher{
		path:     abs,
		holder:   holder,
		watcher:  w,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce overrides the debounce period. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// OnReload registers a callback invoked after every reload attempt with the
// new dictionary or the load error.
func (w *Watcher) OnReload(fn func(*Dictionary, error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = fn
}

// Run processes file events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()

			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != w.path {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			logger.Debugw("Dictionary watcher detected change",
				"file", event.Name,
				"op", event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warnw("Dictionary watcher error",
				"error", err)
		}
	}
}

// scheduleReload debounces rapid file changes.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	d, err := LoadFile(w.path)
	if err != nil {
		logger.Errorw("Dictionary reload failed, keeping previous dictionary",
			"file", w.path,
			"error", err)
	} else {
		w.holder.Store(d)
	}

	w.mu.Lock()
	fn := w.onReload
	w.mu.Unlock()

	if fn != nil {
		fn(d, err)
	}
}
