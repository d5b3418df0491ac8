package watch

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/kk-code-lab/ccc/internal/logging"
	"github.com/sirupsen/logrus"
)

// Watcher follows one directory at a time. Changes only set a flag and call
// notify; the owner decides when to reload.
type Watcher struct {
	fsw    *fsnotify.Watcher
	notify func()
	logger logrus.FieldLogger

	dirty atomic.Bool

	mu  sync.Mutex
	dir string

	done chan struct{}
	wg   sync.WaitGroup
}

// New starts a watcher. notify may be nil and is called from the watcher's
// goroutine.
func New(notify func(), logger logrus.FieldLogger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fsw:    fsw,
		notify: notify,
		logger: logger,
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Watch replaces the watched directory with dir.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fsw.Remove(w.dir); err != nil {
			w.logger.WithError(err).WithField("path", w.dir).Debug("unwatch directory")
		}
		w.dir = ""
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.dir = dir
	w.dirty.Store(false)
	return nil
}

// Dir returns the watched directory, or "" when none.
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// TakeDirty reports whether anything changed since the last call.
func (w *Watcher) TakeDirty() bool {
	return w.dirty.Swap(false)
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.logger.WithFields(logrus.Fields{"path": event.Name, "op": event.Op.String()}).Debug("directory changed")
			if !w.dirty.Swap(true) && w.notify != nil {
				w.notify()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("fsnotify watcher error")
		}
	}
}
