// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

type countingReloader struct {
	calls atomic.Int32
	err   error
}

func (c *countingReloader) Reload(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func startWatch(t *testing.T, svc *ModelWatchService) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("Serve: %v", err)
		}
	})
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
}

func eventually(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

func TestModelWatchServiceDebouncesWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	model := filepath.Join(dir, "model.json")
	if err := os.WriteFile(model, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := &countingReloader{}
	startWatch(t, NewModelWatchService(r, 200*time.Millisecond, model, ""))

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(model, []byte(`{"v":1}`), 0o600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !eventually(t, func() bool { return r.calls.Load() >= 1 }) {
		t.Fatal("model was not reloaded")
	}
	time.Sleep(400 * time.Millisecond)
	if got := r.calls.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1", got)
	}
}

func TestModelWatchServiceSeesAtomicReplace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	model := filepath.Join(dir, "model.json")
	if err := os.WriteFile(model, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := &countingReloader{err: errors.New("bad model")}
	startWatch(t, NewModelWatchService(r, 50*time.Millisecond, model))

	tmp := filepath.Join(dir, "model.json.tmp")
	if err := os.WriteFile(tmp, []byte(`{"v":2}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, model); err != nil {
		t.Fatal(err)
	}

	// A failing reload is logged and the watcher keeps running.
	if !eventually(t, func() bool { return r.calls.Load() >= 1 }) {
		t.Fatal("model was not reloaded after rename")
	}
}

func TestModelWatchServiceIgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	model := filepath.Join(dir, "model.json")
	if err := os.WriteFile(model, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := &countingReloader{}
	startWatch(t, NewModelWatchService(r, 50*time.Millisecond, model))

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if got := r.calls.Load(); got != 0 {
		t.Errorf("reloads = %d, want 0", got)
	}
}

func TestModelWatchServiceMissingDirectory(t *testing.T) {
	t.Parallel()

	svc := NewModelWatchService(&countingReloader{}, 0, filepath.Join(t.TempDir(), "absent", "model.json"))
	if svc.debounce != 500*time.Millisecond {
		t.Errorf("debounce = %v", svc.debounce)
	}
	if err := svc.Serve(context.Background()); err == nil {
		t.Error("expected an error watching a missing directory")
	}
	if svc.String() != "model-watch" {
		t.Errorf("String = %q", svc.String())
	}
}
