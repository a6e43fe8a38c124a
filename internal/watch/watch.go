// Package watch reports changed feature files under the search roots.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/chriserin/reqtrace/internal/source"
)

// DefaultDebounce is the quiet period after the last event before a batch
// of changes is delivered.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches the roots of a set of search filters.
type Watcher struct {
	filters  []source.Filter
	debounce time.Duration
	log      *slog.Logger
	fsw      *fsnotify.Watcher
}

// New starts watching every filter root, and every directory below it for
// recursive filters.
func New(filters []source.Filter, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{filters: filters, debounce: debounce, log: log, fsw: fsw}
	for _, f := range filters {
		if err := w.addRoot(f.Root, f.Recursive); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addRoot(root string, recursive bool) error {
	if !recursive {
		if err := w.fsw.Add(root); err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Run delivers batches of changed paths to onChange until ctx is done.
// onChange runs on the watching goroutine; events arriving meanwhile are
// batched for the next call.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	defer w.fsw.Close()

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	changed := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.dirCreated(event)
			if !w.relevant(event) {
				continue
			}
			changed[filepath.Clean(event.Name)] = true

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			if len(changed) == 0 {
				continue
			}
			paths := make([]string, 0, len(changed))
			for p := range changed {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			changed = make(map[string]bool)
			w.log.Debug("files changed", "count", len(paths))
			onChange(paths)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

// dirCreated starts watching directories created under recursive roots.
func (w *Watcher) dirCreated(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	for _, f := range w.filters {
		if f.Recursive && within(f.Root, event.Name) {
			if err := w.addRoot(event.Name, true); err != nil {
				w.log.Warn("watching new directory failed", "dir", event.Name, "error", err)
			}
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return Matches(w.filters, event.Name)
}

// Matches reports whether any filter selects path.
func Matches(filters []source.Filter, path string) bool {
	path = filepath.Clean(path)
	for _, f := range filters {
		root := filepath.Clean(f.Root)
		if !within(root, path) {
			continue
		}
		if !f.Recursive && filepath.Dir(path) != root {
			continue
		}
		if ok, _ := doublestar.Match(f.Pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

func within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
