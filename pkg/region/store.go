package region

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store holds the active profile and allows lock-free swaps on reload.
type Store struct {
	current atomic.Pointer[Profile]
}

// NewStore creates a store seeded with p.
func NewStore(p Profile) *Store {
	s := &Store{}
	s.Set(p)
	return s
}

// Current returns the active profile.
func (s *Store) Current() Profile {
	return *s.current.Load()
}

// Set replaces the active profile.
func (s *Store) Set(p Profile) {
	s.current.Store(&p)
}

// Watcher reloads a profile file into a Store whenever it changes on disk.
type Watcher struct {
	path   string
	store  *Store
	logger *zap.Logger
}

func NewWatcher(path string, store *Store, logger *zap.Logger) *Watcher {
	return &Watcher{path: path, store: store, logger: logger}
}

// Run blocks until ctx is cancelled. The parent directory is watched so editors that
// replace the file via rename are still picked up.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("region profile watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	p, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("ignoring invalid region profile", zap.String("path", w.path), zap.Error(err))
		return
	}
	// Stored distances are measured from the startup reference point.
	if prev := w.store.Current().ReferencePoint; p.ReferencePoint != prev {
		w.logger.Warn("reference point cannot change at runtime, keeping the current one",
			zap.String("path", w.path),
			zap.String("reference", prev.Label),
		)
		p.ReferencePoint = prev
	}
	w.store.Set(p)
	w.logger.Info("region profile reloaded",
		zap.String("path", w.path),
		zap.String("locality", p.Locality),
		zap.String("region", p.Region),
	)
}
