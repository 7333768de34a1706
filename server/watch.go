// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package server

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher signals on Changes after a debounced burst of events on any of its files.
// It watches parent directories so editors that replace files are still seen.
type watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	changes  chan struct{}
	done     chan struct{}
}

func newWatcher(debounce time.Duration, paths ...string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &watcher{
		fs:       fsw,
		files:    make(map[string]bool),
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			slog.Warn("not watching directory", "dir", dir, "error", err)
			continue
		}
		dirs[dir] = true
		slog.Debug("watching for changes", "file", abs)
	}

	go w.run()
	return w, nil
}

// Changes receives once per debounced burst
func (w *watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *watcher) run() {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				if timer != nil {
					timer.Stop()
				}
				return
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("file changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "error", err)

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

func (w *watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}
