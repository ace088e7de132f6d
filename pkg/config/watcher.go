package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Vilsol/slox"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

func (m *Module) startWatcher(ctx context.Context) {
	if len(m.configFiles) == 0 {
		return
	}

	paths := make([]string, 0, len(m.configFiles))
	for _, cf := range m.configFiles {
		paths = append(paths, cf.path)
	}

	if err := WatchFiles(ctx, paths, m.reload); err != nil {
		slox.Warn(ctx, "failed to watch settings files", slog.Any("error", err))
	}
}

// WatchFiles calls reload (debounced) whenever one of paths is written or recreated,
// until ctx is done. Reload errors are logged and do not stop the watcher.
// The parent directories are watched, so files replaced by a rename keep being followed.
func WatchFiles(ctx context.Context, paths []string, reload func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err //nolint:wrapcheck
	}

	files := make(map[string]struct{}, len(paths))
	dirs := make(map[string]struct{})

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			slox.Warn(ctx, "failed to watch file", slog.String("path", path), slog.Any("error", err))
			continue
		}
		files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}

		if err := watcher.Add(dir); err != nil {
			slox.Warn(ctx, "failed to watch file", slog.String("path", path), slog.Any("error", err))
		}
	}

	go watchLoop(ctx, watcher, files, reload)

	return nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, files map[string]struct{}, reload func() error) {
	defer func() { _ = watcher.Close() }()

	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if _, watched := files[filepath.Clean(event.Name)]; !watched {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, func() {
					if err := reload(); err != nil {
						slox.Error(ctx, "failed to reload", slog.String("path", event.Name), slog.Any("error", err))
					} else {
						slox.Info(ctx, "reloaded", slog.String("path", event.Name))
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slox.Error(ctx, "file watcher error", slog.Any("error", err))
		}
	}
}
