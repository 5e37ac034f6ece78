// Package filewatcher watches an export directory for new transcripts.
package filewatcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/0xcro3dile/chatstats-go/internal/domain/ports"
)

// DefaultQuiet is how long a file must stay untouched before its event is emitted.
const DefaultQuiet = 500 * time.Millisecond

// FSNotifyWatcher implements ports.FileWatcher using fsnotify.
// Bursts of events for one file (create followed by writes) collapse into
// a single event once the file has been quiet for the configured period.
type FSNotifyWatcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
	quiet      time.Duration
}

// NewFSNotifyWatcher creates a new file watcher.
func NewFSNotifyWatcher(extensions []string, quiet time.Duration) (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating watcher")
	}

	if len(extensions) == 0 {
		extensions = []string{".json"}
	}
	if quiet <= 0 {
		quiet = DefaultQuiet
	}

	return &FSNotifyWatcher{
		watcher:    w,
		extensions: extensions,
		quiet:      quiet,
	}, nil
}

// Watch starts monitoring the directory and emits settled events.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileEvent, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, errors.Wrapf(err, "watching %s", dir)
	}

	events := make(chan ports.FileEvent, 100)

	go func() {
		defer close(events)

		pending := make(map[string]ports.FileOperation)
		timer := time.NewTimer(w.quiet)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.isWatchedExtension(event.Name) {
					continue
				}

				op, ok := operation(event.Op)
				if !ok {
					continue
				}
				pending[event.Name] = merge(pending, event.Name, op)
				timer.Reset(w.quiet)
			case <-timer.C:
				for _, path := range sortedKeys(pending) {
					select {
					case events <- ports.FileEvent{Path: path, Operation: pending[path]}:
					case <-ctx.Done():
						return
					}
				}
				clear(pending)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("file watcher error", "dir", dir, "error", err)
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}

// isWatchedExtension checks if the file has a watched extension.
func (w *FSNotifyWatcher) isWatchedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func operation(op fsnotify.Op) (ports.FileOperation, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return ports.FileCreated, true
	case op.Has(fsnotify.Write):
		return ports.FileModified, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return ports.FileDeleted, true
	}
	return 0, false
}

// merge keeps "created" for a file still being written and lets a
// later delete or re-create win.
func merge(pending map[string]ports.FileOperation, path string, op ports.FileOperation) ports.FileOperation {
	prev, ok := pending[path]
	if ok && prev == ports.FileCreated && op == ports.FileModified {
		return ports.FileCreated
	}
	return op
}

func sortedKeys(m map[string]ports.FileOperation) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
