// Package watch regenerates documentation when package sources change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dn-m/documentarian/internal/logfields"
)

// DefaultDebounce coalesces bursts of editor writes into one rebuild.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc regenerates documentation. Errors are logged and watching continues.
type RebuildFunc func(ctx context.Context) error

// Watcher runs a rebuild once, then again after every relevant change under its paths.
type Watcher struct {
	paths    []string
	rebuild  RebuildFunc
	debounce time.Duration

	roots []string            // watched directory trees
	files map[string]struct{} // individually watched files
}

// New creates a watcher over paths (directories are watched recursively).
// Paths that do not exist are skipped with a warning when Run starts.
func New(rebuild RebuildFunc, paths ...string) *Watcher {
	return &Watcher{paths: paths, rebuild: rebuild, debounce: DefaultDebounce, files: map[string]struct{}{}}
}

// WithDebounce overrides the debounce interval.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Run blocks until ctx is done. Only a failure to set up the watcher is returned.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := w.register(fw); err != nil {
		return err
	}

	d := newDebouncer(w.debounce)
	defer d.stop()

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.rebuildLoop(loopCtx, d.C())
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	d.fire()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watch")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, d.trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) register(fw *fsnotify.Watcher) error {
	watched := 0
	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		fi, err := os.Stat(abs)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Watch path does not exist; skipping", logfields.Path(abs))
			continue
		}
		if err != nil {
			return fmt.Errorf("stat %s: %w", abs, err)
		}
		if fi.IsDir() {
			w.roots = append(w.roots, abs)
			addDirsRecursive(fw, abs)
		} else {
			// Editors replace files on save, so the parent directory is watched instead.
			w.files[abs] = struct{}{}
			if err := fw.Add(filepath.Dir(abs)); err != nil {
				slog.Warn("Watch add failed", logfields.Path(abs), logfields.Error(err))
			}
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("none of the watch paths exist: %s", strings.Join(w.paths, ", "))
	}
	slog.Info("Watching for changes", slog.Any("paths", w.paths))
	return nil
}

func (w *Watcher) rebuildLoop(ctx context.Context, requests <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-requests:
			slog.Info("Change detected; regenerating documentation")
			start := time.Now()
			if err := w.rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Warn("Rebuild failed", logfields.Error(err))
				continue
			}
			slog.Info("Rebuild complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || !w.relevant(ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// relevant reports whether name is a watched file or lies under a watched tree.
func (w *Watcher) relevant(name string) bool {
	if _, ok := w.files[name]; ok {
		return true
	}
	for _, root := range w.roots {
		if name == root || strings.HasPrefix(name, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fw.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for hidden, swap and lock files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
