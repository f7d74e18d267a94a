package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchFiles calls onChange with the changed paths after writes to any of
// paths settle for the debounce interval. It blocks until ctx is done.
//
// Parent directories are watched rather than the files, so editors that
// save by renaming a temp file over the original are still seen.
func watchFiles(ctx context.Context, logger *slog.Logger, paths []string, debounce time.Duration, onChange func([]string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// absolute path -> path as given by the user
	watched := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		watched[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	pending := make(map[string]bool)
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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			name, ok := watched[abs]
			if !ok {
				continue
			}

			logger.Debug("file changed", "file", name, "op", event.Op.String())
			pending[name] = true

			// Debounce
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			clear(pending)
			sort.Strings(changed)
			onChange(changed)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
