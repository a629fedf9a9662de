package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	m "vcrm.dev/pkg/vcrm/internal/model"
)

// DefaultDebounce coalesces bursts of saves on the same file.
const DefaultDebounce = 200 * time.Millisecond

// Watch displays the actions of every source, then rescans a file each time
// it changes. A newer change cancels the pending or running scan of the
// same file, whose result is then dropped. It returns when ctx is done.
func (w *workflow) Watch(ctx context.Context, args WatchArgs) error {
	sources, err := w.fsAdapter.Get(ctx, args.Paths, args.Exclude...)
	if err != nil {
		slog.Error("Failed to discover sources", "error", err)
		return fmt.Errorf("get sources: %w", err)
	}

	lenses, err := w.collectLenses(ctx, sources, w.roots.RootContext(ctx, args.Roots, args.Marker), args.Threads)
	if err != nil {
		return err
	}

	if err := w.ui.DisplayLenses(ctx, lenses, args.Format); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	events, err := w.watcher.Watch(ctx, watchDirs(args.Paths, sources))
	if err != nil {
		slog.Error("Failed to start watcher", "error", err)
		return fmt.Errorf("watch: %w", err)
	}

	debounce := args.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	r := newRescanner(w, args, debounce)
	defer r.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-events:
			if !ok {
				return nil
			}

			r.schedule(ctx, path)
		}
	}
}

// rescanner keeps at most one scan in flight per file.
type rescanner struct {
	w        *workflow
	args     WatchArgs
	debounce time.Duration

	mu        sync.Mutex
	inflight  map[m.Path]context.CancelFunc
	displayMu sync.Mutex
	wg        sync.WaitGroup
}

func newRescanner(w *workflow, args WatchArgs, debounce time.Duration) *rescanner {
	return &rescanner{
		w:        w,
		args:     args,
		debounce: debounce,
		inflight: make(map[m.Path]context.CancelFunc),
	}
}

func (r *rescanner) schedule(ctx context.Context, path m.Path) {
	scanCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if previous, ok := r.inflight[path]; ok {
		previous()
	}

	r.inflight[path] = cancel
	r.mu.Unlock()

	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer r.release(scanCtx, path, cancel)

		if err := r.rescan(scanCtx, path); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("Rescan failed", "path", path, "error", err)
		}
	}()
}

// release forgets cancel unless a newer scan already replaced it.
func (r *rescanner) release(scanCtx context.Context, path m.Path, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if scanCtx.Err() == nil {
		delete(r.inflight, path)
	}

	cancel()
}

func (r *rescanner) rescan(ctx context.Context, path m.Path) error {
	timer := time.NewTimer(r.debounce)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	sources, err := r.w.fsAdapter.Get(ctx, []m.Path{path}, r.args.Exclude...)
	if err != nil || len(sources) == 0 {
		return err
	}

	lens, err := r.w.lensFor(ctx, sources[0], r.w.roots.RootContext(ctx, r.args.Roots, r.args.Marker))
	if err != nil {
		return err
	}

	r.displayMu.Lock()
	defer r.displayMu.Unlock()

	// A newer change may have arrived while scanning.
	if err := ctx.Err(); err != nil {
		return err
	}

	slog.Debug("Rescanned source", "path", path, "actions", len(lens.Actions))

	return r.w.ui.DisplayLenses(ctx, []m.FileLens{lens}, r.args.Format)
}

func (r *rescanner) stop() {
	r.mu.Lock()
	for _, cancel := range r.inflight {
		cancel()
	}
	r.mu.Unlock()

	r.wg.Wait()
}

// watchDirs lists the directories to observe: the pattern roots and every
// directory holding a discovered source.
func watchDirs(patterns []m.Path, sources []m.Source) []m.Path {
	seen := make(map[m.Path]struct{})

	add := func(dir string) {
		seen[m.Path(filepath.Clean(dir))] = struct{}{}
	}

	for _, pattern := range patterns {
		root := string(pattern)
		if filepath.Base(root) == "..." {
			root = filepath.Dir(root)
		}

		if filepath.Ext(root) == ".py" {
			root = filepath.Dir(root)
		}

		add(root)
	}

	if len(patterns) == 0 {
		add(".")
	}

	for _, source := range sources {
		add(filepath.Dir(string(source.Path)))
	}

	dirs := make([]m.Path, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i] < dirs[j] })

	return dirs
}
