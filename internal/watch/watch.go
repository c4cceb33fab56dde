// Package watch re-runs a callback whenever one source file changes on
// disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
)

// debounceDelay batches the event bursts editors produce on save into
// one callback.
const debounceDelay = 250 * time.Millisecond

// Watcher monitors a single source file.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	logger   hclog.Logger
}

// New prepares a watcher for sourcePath. Every settled change to the
// file runs onChange.
func New(sourcePath string, onChange func(), logger hclog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving %s: %v", apperrors.ErrIOFailure, sourcePath, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: creating watcher: %v", apperrors.ErrIOFailure, err)
	}

	return &Watcher{
		watcher:  fsWatcher,
		path:     abs,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// Run blocks until ctx is cancelled. The parent directory is watched
// rather than the file itself so editors that save by rename keep
// triggering.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("%w: watching %s: %v", apperrors.ErrIOFailure, dir, err)
	}

	w.logger.Info("👀 Watching source", "path", w.path)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	base := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Watch cancelled")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Base(event.Name) != base {
				continue
			}

			// Chmod and Remove carry no new content.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.Debug("Source changed",
				"path", event.Name,
				"op", event.Op.String())

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}
