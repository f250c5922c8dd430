// Package watch re-runs documentation validation when the docs tree changes.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of events (editor saves, git checkouts)
// into one run.
const DefaultDebounce = 200 * time.Millisecond

// RunFunc performs one validation pass. changed lists the paths (relative to
// the watched directory) touched since the previous pass.
type RunFunc func(ctx context.Context, changed []string)

// Options configures Watch.
type Options struct {
	Extension string        // only files with this suffix trigger a run
	Debounce  time.Duration // DefaultDebounce when zero
	Logger    *slog.Logger
}

// Watch starts an fsnotify watcher on dir and calls run after every settled
// burst of document changes until ctx is cancelled. Directories created at
// runtime are added to the watch list; removing or renaming a directory
// also triggers a run since documents may have disappeared with it.
func Watch(ctx context.Context, dir string, opts Options, run RunFunc) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Extension == "" {
		opts.Extension = ".md"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", dir))

	var timer *time.Timer
	var timerCh <-chan time.Time
	pending := make(map[string]struct{})

	schedule := func(rel string) {
		pending[rel] = struct{}{}
		if timer == nil {
			timer = time.NewTimer(opts.Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(opts.Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			timer = nil
			timerCh = nil
			logger.Debug("watcher: running", slog.Int("changed", len(changed)))
			run(ctx, changed)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			rel, relErr := filepath.Rel(dir, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					schedule(rel)
					continue
				}
			}

			if !strings.HasSuffix(ev.Name, opts.Extension) {
				// A removed or renamed directory takes its documents with it.
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule(rel)
				}
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: changed", slog.String("path", rel), slog.String("op", ev.Op.String()))
				schedule(rel)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds dir and all subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
