package library

import (
	"context"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher invalidates a cache when documents change in its directory sources.
type Watcher struct {
	cache   *Cache
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	exts    map[string]string // watched dir -> extension

	wg   sync.WaitGroup
	once sync.Once
}

// NewWatcher watches every DirSource of the cached library.
// Libraries without directory sources get a watcher that does nothing.
func NewWatcher(cache *Cache, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cache:   cache,
		logger:  logger,
		watcher: fw,
		exts:    make(map[string]string),
	}

	for _, src := range cache.Library().Sources() {
		dir, ok := src.(*DirSource)
		if !ok {
			continue
		}
		if err := fw.Add(dir.Root); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir.Root, err)
		}
		w.exts[dir.Root] = dir.Extension
		logger.Debug("Watching library directory", zap.String("dir", dir.Root))
	}

	return w, nil
}

// Start processes events until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				w.handle(ev)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("Library watcher error", zap.Error(err))
			}
		}
	}()
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Write) {
		return
	}
	if !w.relevant(ev.Name) {
		return
	}
	w.cache.Invalidate()
	w.logger.Info("Library changed, index invalidated",
		zap.String("file", ev.Name),
		zap.String("op", ev.Op.String()),
	)
}

func (w *Watcher) relevant(path string) bool {
	for _, ext := range w.exts {
		if matchesExtension(path, ext) {
			return true
		}
	}
	return false
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
