// Package watcher turns filesystem changes under the Steam entries directory
// into debounced sync triggers.
package watcher

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/store"
)

// DefaultDebounce is the quiet period after the last event before a trigger fires.
const DefaultDebounce = 2 * time.Second

// Source is the trigger source name reported by the watcher.
const Source = "watcher"

// Watcher watches a directory tree and emits one trigger per burst of changes.
type Watcher struct {
	root     string
	debounce time.Duration
	ignore   *patternmatcher.PatternMatcher
	fsw      *fsnotify.Watcher
	logger   *logrus.Entry
}

// New subscribes to root and every directory below it. root must exist.
// ignore holds patternmatcher patterns relative to root.
func New(root string, debounce time.Duration, ignore []string, logger *logrus.Entry) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.NoStorefrontDir(root)
	}

	pm, err := patternmatcher.New(ignore)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid watch_ignore pattern")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WatchFailed(root, err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	w := &Watcher{
		root:     root,
		debounce: debounce,
		ignore:   pm,
		fsw:      fsw,
		logger:   logger,
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, errors.WatchFailed(root, err)
	}

	return w, nil
}

// Name identifies the watcher in logs.
func (w *Watcher) Name() string { return Source }

// Run forwards debounced change notifications to triggers until ctx is
// cancelled. A pending debounce is dropped on shutdown.
func (w *Watcher) Run(ctx context.Context, st *store.Store, triggers chan<- store.Trigger) error {
	defer w.fsw.Close()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}
			w.logger.WithField("path", event.Name).Debugf("fsnotify event: %v", event.Op)

			if event.Has(fsnotify.Create) {
				w.maybeAddDir(event.Name)
			}
			// Trailing edge: every event restarts the quiet period
			fire = time.After(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if stderrors.Is(err, fsnotify.ErrEventOverflow) {
				// Events were lost; a pass re-reads everything anyway
				w.logger.Warn("Watch queue overflowed, scheduling sync")
				fire = time.After(w.debounce)
				continue
			}
			w.logger.WithError(err).Error("Watcher error")

		case <-fire:
			fire = nil
			if !st.Running() {
				return nil
			}
			w.logger.Debug("Changes settled, requesting sync")
			select {
			case triggers <- store.Trigger{Source: Source, At: time.Now()}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// addTree adds dir and every non-ignored directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.logger.WithError(err).WithField("path", path).Debug("Skipping inaccessible path")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// maybeAddDir extends the watch to directories created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.WithError(err).WithField("path", path).Warn("Failed to watch new directory")
	}
}

func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	matched, err := w.ignore.MatchesOrParentMatches(filepath.ToSlash(rel))
	return err == nil && matched
}
