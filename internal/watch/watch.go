// Package watch re-runs a render callback whenever a template file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// debounce suppresses duplicate events from editors that write a file in
// several steps.
const debounce = 100 * time.Millisecond

// Watcher invokes a render callback on changes to a single file until its
// context is cancelled. Render failures are logged and watching continues.
type Watcher struct {
	path   string
	render func() error
	logger *slog.Logger
}

// New creates a watcher for path. The callback runs on the watcher's
// goroutine; it must not block indefinitely.
func New(path string, render func() error, logger *slog.Logger) *Watcher {
	return &Watcher{path: path, render: render, logger: logger}
}

// Run watches the file's directory (editors often replace files rather than
// writing them in place, so watching the file itself misses renames) and
// re-renders on write or create events for the target path.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(w.path)
	if err != nil {
		_ = fw.Close()
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer func() { _ = fw.Close() }()

		var last time.Time
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case event, ok := <-fw.Events:
				if !ok {
					return nil
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				abs, err := filepath.Abs(event.Name)
				if err != nil || abs != target {
					continue
				}
				if time.Since(last) < debounce {
					continue
				}
				last = time.Now()

				w.logger.Info("template changed, re-rendering", "path", w.path)
				if err := w.render(); err != nil {
					w.logger.Error("render failed", "error", err)
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return nil
				}
				w.logger.Error("watch error", "error", err)
			}
		}
	})

	return g.Wait()
}
