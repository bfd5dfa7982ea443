package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/iedon/wiki-sidebar/fsutil"
)

// Watcher runs a rebuild after content changes settle for the debounce interval.
// Rebuilds run on the watcher goroutine so two never overlap.
type Watcher struct {
	dir      string
	ignore   []string
	debounce time.Duration
	logger   *slog.Logger
	rebuild  func(context.Context) error
}

// NewWatcher watches dir recursively. Events below any of the ignore directories are dropped,
// which keeps an output directory placed inside the content tree from retriggering builds.
func NewWatcher(dir string, debounce time.Duration, logger *slog.Logger, rebuild func(context.Context) error, ignore ...string) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	abs := make([]string, 0, len(ignore))
	for _, p := range ignore {
		if full, err := filepath.Abs(p); err == nil {
			abs = append(abs, full)
		}
	}
	return &Watcher{dir: dir, ignore: abs, debounce: debounce, logger: logger, rebuild: rebuild}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.dir); err != nil {
		return err
	}
	w.logger.Info("watching content", "dir", w.dir, "debounce", w.debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.shouldIgnore(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(fw, ev.Name); err != nil {
						w.logger.Warn("watch add failed", "dir", ev.Name, "error", err)
					}
				}
			}
			w.logger.Debug("content change", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		case <-fire:
			fire = nil
			w.logger.Info("change detected; rebuilding")
			if err := w.rebuild(ctx); err != nil {
				w.logger.Warn("rebuild failed", "error", err)
			}
		}
	}
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	dirs, err := fsutil.Dirs(root)
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	for _, dir := range dirs {
		if w.isIgnoredDir(dir) {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return nil
}

func (w *Watcher) isIgnoredDir(p string) bool {
	full, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	for _, dir := range w.ignore {
		if full == dir || strings.HasPrefix(full, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnore drops hidden files, editor swap files and anything under an ignored directory.
func (w *Watcher) shouldIgnore(p string) bool {
	base := filepath.Base(p)
	switch {
	case strings.HasPrefix(base, "."), strings.HasPrefix(base, "#"):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	}
	return w.isIgnoredDir(p)
}
