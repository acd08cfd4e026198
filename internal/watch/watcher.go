package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	serr "traypack/internal/errors"
	"traypack/internal/log"
	"traypack/internal/tray"

	"github.com/fsnotify/fsnotify"
)

// ErrAlreadyRunning is returned by Run when the watcher is already running.
var ErrAlreadyRunning = serr.New("watcher already running")

// Watcher monitors a tray folder and calls back once file activity has
// settled for the debounce period.
type Watcher struct {
	dir      string
	debounce time.Duration

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	mutex   sync.Mutex
	running bool
}

// New creates a watcher for dir using fsnotify
func New(dir string, debounce time.Duration) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	return &Watcher{dir: dir, debounce: debounce, fsWatcher: fsWatcher}, nil
}

// Relevant reports whether an event on path should trigger a repack: only
// files with a tray extension count.
func Relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	ext := filepath.Ext(event.Name)
	if len(ext) <= 1 {
		return false
	}
	return tray.KindForExtension(ext[1:]) != tray.KindUnsupported
}

// Run blocks until ctx is cancelled, calling onChange after each burst of
// relevant events. Calls to onChange never overlap. The watcher is closed
// when Run returns.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true
	w.mutex.Unlock()

	defer func() {
		if err := w.fsWatcher.Close(); err != nil {
			log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
		}
	}()

	logger := log.LogWithFields(log.F("directory", w.dir))
	logger.Info("Watching tray folder")

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("Watcher stopped")
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if !Relevant(event) {
				continue
			}
			logger.With(log.F("file", filepath.Base(event.Name)), log.F("op", event.Op.String())).Debug("Tray change")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := onChange(); err != nil {
				logger.ErrorWithStack(err, "Repack failed")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			logger.ErrorWithStack(err, "fsnotify watcher error")
		}
	}
}
