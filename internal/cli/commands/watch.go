package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// sourceExt is the extension of watched program files.
const sourceExt = ".avenger"

// watchDirs returns the directories to watch: the parents of the given
// files, or every non-hidden directory below root when there are none.
func watchDirs(root string, files []string) ([]string, error) {
	if len(files) > 0 {
		var dirs []string
		for _, f := range files {
			abs, err := filepath.Abs(f)
			if err != nil {
				return nil, err
			}
			if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
				dirs = append(dirs, dir)
			}
		}
		return dirs, nil
	}

	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return dirs, nil
}

// watchAndRun calls run after every burst of changes to program files in
// dirs, until ctx is cancelled.
func watchAndRun(ctx context.Context, cc *CommandContext, dirs []string, debounce time.Duration, run func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	cc.Renderer.Muted("Watching %d director%s for changes. Press Ctrl+C to stop.", len(dirs), plural(len(dirs), "y", "ies"))
	debounceLoop(ctx, cc.Logger, watcher.Events, watcher.Errors, debounce, run)
	return nil
}

// debounceLoop calls run once the event stream has been quiet for
// debounce after one or more relevant events. It returns when ctx is done
// or either channel is closed.
func debounceLoop(ctx context.Context, logger *slog.Logger, events <-chan fsnotify.Event, errs <-chan error, debounce time.Duration, run func()) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			run()

		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Ext(event.Name) == sourceExt
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

