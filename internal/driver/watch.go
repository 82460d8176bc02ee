package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"bracefmt/internal/trace"
)

// DefaultDebounce batches bursts of editor saves into one formatting run.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Format   FormatOptions
	Debounce time.Duration
	// OnReady is called once every directory is being watched.
	OnReady func(dirs int)
	// OnBatch receives the results of every formatting run.
	OnBatch func(results []FormatResult, err error)
}

// Watch formats files under roots whenever they are written or created,
// until ctx is canceled. Files it rewrites itself produce one more event and
// come back unchanged, which ends the cycle.
func Watch(ctx context.Context, roots []string, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	filter := newFileFilter(opts.Format.Extensions, opts.Format.Exclude)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	absRoots := make([]string, 0, len(roots))
	dirs := 0
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("failed to resolve %q: %w", root, err)
		}
		n, err := watchTree(watcher, abs, abs, filter)
		if err != nil {
			return err
		}
		dirs += n
		absRoots = append(absRoots, abs)
	}
	if opts.OnReady != nil {
		opts.OnReady(dirs)
	}

	tracer := trace.FromContext(ctx)
	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			root := rootOf(absRoots, event.Name)
			if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
				if event.Has(fsnotify.Create) {
					if _, err := watchTree(watcher, root, event.Name, filter); err != nil {
						trace.Point(tracer, trace.ScopeRun, 0, "watch", err.Error(), nil)
					}
				}
				continue
			}
			if !filter.accepts(root, event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				timer.Reset(opts.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			clear(pending)
			sort.Strings(batch)
			// Explicit files are always formatted, so the batch needs no re-filtering.
			results, err := FormatPaths(ctx, batch, opts.Format)
			if opts.OnBatch != nil {
				opts.OnBatch(results, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			trace.Point(tracer, trace.ScopeRun, 0, "watch", err.Error(), nil)
		}
	}
}

// watchTree adds dir and its non-excluded subdirectories to the watcher.
func watchTree(w *fsnotify.Watcher, root, dir string, filter fileFilter) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root {
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil && filter.excluded(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %q: %w", path, err)
		}
		count++
		return nil
	})
	return count, err
}

// rootOf returns the watched root containing path.
func rootOf(roots []string, path string) string {
	best := filepath.Dir(path)
	bestLen := -1
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
			continue
		}
		if len(root) > bestLen {
			best, bestLen = root, len(root)
		}
	}
	return best
}
