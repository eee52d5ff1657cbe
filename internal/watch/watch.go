// Package watch reloads a local catalog file when it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/lmj0209/tool-website/internal/catalog"
	"github.com/lmj0209/tool-website/internal/catalog/source"
)

const defaultDebounce = 250 * time.Millisecond

// Target receives every successfully reloaded catalog.
type Target interface {
	Replace(doc catalog.Catalog) error
}

// Options configures a Watcher.
type Options struct {
	Logger *zap.Logger
	// Debounce collapses the burst of events an editor save produces.
	Debounce time.Duration
}

// Watcher re-reads one catalog file after it changes.
type Watcher struct {
	path     string
	loader   source.Loader
	target   Target
	logger   *zap.Logger
	debounce time.Duration
}

// New builds a watcher for the file at path. loader reads it; a nil loader
// uses a FileLoader for path.
func New(path string, loader source.Loader, target Target, opts Options) (*Watcher, error) {
	if !source.IsLocal(path) {
		return nil, fmt.Errorf("watch: %q is not a local file", path)
	}
	if target == nil {
		return nil, errors.New("watch: target is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	if loader == nil {
		loader = source.NewFileLoader(abs)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		path:     abs,
		loader:   loader,
		target:   target,
		logger:   logger.With(zap.String("path", abs)),
		debounce: debounce,
	}, nil
}

// Run watches until ctx ends. The parent directory is watched rather than
// the file so replace-by-rename saves are seen. A reload that fails to load
// or validate keeps the current catalog.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching catalog file")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("catalog file event", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0
}

func (w *Watcher) reload(ctx context.Context) {
	doc, err := w.loader.Load(ctx)
	if err != nil {
		w.logger.Warn("catalog reload failed; keeping current catalog", zap.Error(err))
		return
	}
	if err := w.target.Replace(doc); err != nil {
		w.logger.Warn("reloaded catalog rejected; keeping current catalog", zap.Error(err))
		return
	}
	w.logger.Info("catalog reloaded",
		zap.Int("categories", len(doc.Categories)),
		zap.Int("tools", len(doc.Tools)),
	)
}
