// File: watch.go
// Title: Source File Watcher
// Description: Calls back whenever a single file is written or recreated.
//              The parent directory is watched so editors that replace the
//              file through a rename are still seen. Bursts of events are
//              collapsed into one call after a quiet period.
// Author: msto63
// Version: v0.1.0
// Created: 2026-03-06
// Modified: 2026-03-06
//
// Change History:
// - 2026-03-06 v0.1.0: Initial watcher

package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/msto63/sessionkit/pkg/core/errors"
	"github.com/msto63/sessionkit/pkg/core/logging"
)

// DefaultDebounce is used when no debounce is given
const DefaultDebounce = 500 * time.Millisecond

// Func is invoked after the watched file changed. A returned error is
// logged and watching continues.
type Func func(ctx context.Context) error

// Watcher watches one file
type Watcher struct {
	Path     string
	Debounce time.Duration
	Logger   *logging.Logger

	// Ready, if set, is closed once the watch is installed
	Ready chan struct{}
}

// Watch runs a Watcher for path until ctx is done
func Watch(ctx context.Context, path string, debounce time.Duration, fn Func) error {
	w := &Watcher{Path: path, Debounce: debounce}
	return w.Run(ctx, fn)
}

// Run blocks until ctx is done. It returns nil on cancellation and an error
// only when the watch cannot be installed.
func (w *Watcher) Run(ctx context.Context, fn Func) error {
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := w.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	target, err := filepath.Abs(w.Path)
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "resolve watched path").WithDetail("path", w.Path)
	}
	logger = logger.WithField("path", target)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "create watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrap(err, errors.CodeIO, "watch directory").WithDetail("path", filepath.Dir(target))
	}
	if w.Ready != nil {
		close(w.Ready)
	}
	logger.Info("watching for changes", logging.Fields{"debounce": debounce.String()})

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
			logger.Debug("watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			logger.Debug("change detected")
			if err := fn(ctx); err != nil {
				logger.Error("change handler failed", logging.Fields{"err": err})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.Fields{"err": err})
		}
	}
}
