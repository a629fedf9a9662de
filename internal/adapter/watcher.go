package adapter

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

// FileWatcher reports Python files that changed on disk.
type FileWatcher interface {
	// Watch starts delivering changed paths for the given directories. The
	// returned channel is closed once ctx is done or the watcher fails.
	Watch(ctx context.Context, dirs []m.Path) (<-chan m.Path, error)
}

// FSNotifyWatcher is the fsnotify backed FileWatcher.
type FSNotifyWatcher struct{}

// NewFSNotifyWatcher creates an idle watcher.
func NewFSNotifyWatcher() *FSNotifyWatcher {
	return &FSNotifyWatcher{}
}

// Watch implements FileWatcher.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dirs []m.Path) (<-chan m.Path, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := watcher.Add(string(dir)); err != nil {
			_ = watcher.Close()
			return nil, err
		}

		slog.Debug("Watching directory", "dir", dir)
	}

	out := make(chan m.Path)

	go w.run(ctx, watcher, out)

	return out, nil
}

func (w *FSNotifyWatcher) run(ctx context.Context, watcher *fsnotify.Watcher, out chan<- m.Path) {
	defer close(out)

	defer func() {
		if err := watcher.Close(); err != nil {
			slog.Error("Failed to close watcher", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Ext(event.Name) != pythonExt {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			select {
			case out <- m.Path(event.Name):
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			slog.Warn("Watcher error", "error", err)
		}
	}
}
