// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tomtom215/getaround/internal/logging"
)

var errWatcherClosed = errors.New("model watcher closed")

// Reloader rebuilds the active model from disk.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ModelWatchService reloads the model when its files change on disk.
//
// The parent directories are watched rather than the files so that atomic
// replaces (write to temp, rename over) are seen. Bursts of events are
// collapsed into one reload after debounce of quiet.
type ModelWatchService struct {
	reloader Reloader
	files    map[string]struct{}
	debounce time.Duration
}

// NewModelWatchService watches paths. Empty paths are ignored.
func NewModelWatchService(reloader Reloader, debounce time.Duration, paths ...string) *ModelWatchService {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	files := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		files[filepath.Clean(p)] = struct{}{}
	}
	return &ModelWatchService{reloader: reloader, files: files, debounce: debounce}
}

// Serve implements suture.Service. Reload failures are logged and the
// previous model stays active; watcher failures end Serve so the
// supervisor restarts it.
func (s *ModelWatchService) Serve(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dirs := make(map[string]struct{})
	for f := range s.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	log := logging.WithComponent("model-watch")
	log.Info().Int("files", len(s.files)).Dur("debounce", s.debounce).Msg("Watching model files")

	timer := time.NewTimer(s.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return errWatcherClosed
			}
			if !s.relevant(ev) {
				continue
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("Model file changed")
			timer.Reset(s.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errWatcherClosed
			}
			return fmt.Errorf("watch model files: %w", err)

		case <-timer.C:
			if err := s.reloader.Reload(ctx); err != nil {
				log.Error().Err(err).Msg("Model reload failed, keeping the active model")
				continue
			}
			log.Info().Msg("Model reloaded")
		}
	}
}

func (s *ModelWatchService) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	_, ok := s.files[filepath.Clean(ev.Name)]
	return ok
}

// String names the service in supervisor logs.
func (s *ModelWatchService) String() string {
	return "model-watch"
}
