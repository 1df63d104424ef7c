package posts

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Invalidator is anything holding derived post state that must be dropped
// when the content root changes.
type Invalidator interface {
	Invalidate()
}

const watchedOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher invalidates a cache whenever a post file under the content root
// is created, written, removed or renamed.
type Watcher struct {
	watcher *fsnotify.Watcher
	target  Invalidator
	logger  interfaces.Logger
}

// NewWatcher starts watching root. Call Run to process events and Close to
// release the underlying watcher.
func NewWatcher(root string, target Invalidator, logger interfaces.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NoOp()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("posts watcher: %w", err)
	}
	if err := watcher.Add(root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("posts watcher: watch %s: %w", root, err)
	}
	return &Watcher{watcher: watcher, target: target, logger: logger}, nil
}

// Run blocks until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&watchedOps == 0 || !strings.HasSuffix(event.Name, Extension) {
				continue
			}
			w.logger.Debug("posts.watch.changed", "file", event.Name, "op", event.Op.String())
			w.target.Invalidate()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("posts.watch.error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
