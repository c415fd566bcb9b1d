// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package predictor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/getaround/internal/config"
)

func bridgeConfig() config.ModelConfig {
	return config.ModelConfig{
		Backend:        config.BackendJoblib,
		Path:           "/models/model.joblib",
		Python:         "python3",
		BridgePort:     7071,
		StartupTimeout: time.Second,
		RequestTimeout: time.Second,
	}
}

// fakeBridgeServer mimics the rendered script: GET answers OK and POST
// answers a float, or 400 when fuel is missing.
func fakeBridgeServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, "OK\n")
			return
		}
		var row map[string]any
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, err.Error())
			return
		}
		if row["fuel"] == nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, "Found unknown categories [None] in column 1")
			return
		}
		_, _ = io.WriteString(w, "101.26000000000001")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBridgeRender(t *testing.T) {
	t.Parallel()

	b := NewBridge(bridgeConfig())
	script, err := b.render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	s := string(script)
	for _, want := range []string{
		`MODEL = joblib.load("/models/model.joblib")`,
		`PREPRO = None`,
		`def run(addr="127.0.0.1", port=7071):`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("script is missing %q", want)
		}
	}

	cfg := bridgeConfig()
	cfg.PreprocessorPath = `/models/it's "prepro".joblib`
	script, err = NewBridge(cfg).render()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(script), `PREPRO = joblib.load("/models/it's \"prepro\".joblib")`) {
		t.Errorf("preprocessor path not quoted:\n%s", script)
	}
}

func TestBridgePredict(t *testing.T) {
	t.Parallel()

	srv := fakeBridgeServer(t)
	b := NewBridge(bridgeConfig())
	b.url = srv.URL

	if _, err := b.Predict(context.Background(), testFeatures()); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}

	done := make(chan error)
	if err := b.waitReady(context.Background(), done); err != nil {
		t.Fatalf("waitReady: %v", err)
	}
	b.ready.Store(true)

	got, err := b.Predict(context.Background(), testFeatures())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if Round(got, 1) != 101.3 {
		t.Errorf("got %v", got)
	}

	f := testFeatures()
	f.Fuel = nil
	if _, err := b.Predict(context.Background(), f); !errors.Is(err, ErrFeatureMismatch) {
		t.Errorf("err = %v, want ErrFeatureMismatch", err)
	}
}

func TestBridgeWaitReadyExit(t *testing.T) {
	t.Parallel()

	b := NewBridge(bridgeConfig())
	b.url = "http://127.0.0.1:1"

	done := make(chan error, 1)
	done <- errors.New("exit status 1")
	if err := b.waitReady(context.Background(), done); err == nil {
		t.Fatal("expected an error when the child exits during startup")
	}
}

func TestBridgeServeMissingInterpreter(t *testing.T) {
	t.Parallel()

	cfg := bridgeConfig()
	cfg.Python = "/nonexistent/python3"
	b := NewBridge(cfg)

	if err := b.Serve(context.Background()); err == nil {
		t.Fatal("Serve should fail when the interpreter does not exist")
	}
	if b.Ready() {
		t.Error("bridge must not be ready")
	}
}

func TestBridgeRestartDoesNotBlock(t *testing.T) {
	t.Parallel()

	b := NewBridge(bridgeConfig())
	b.Restart()
	b.Restart()
	if len(b.restart) != 1 {
		t.Errorf("pending restarts = %d, want 1", len(b.restart))
	}
}

// interpreters returns stand-ins for Python: one that exits 0 for any
// arguments and one that always exits 1.
func interpreters(t *testing.T) (ok, broken string) {
	t.Helper()
	ok, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true not found")
	}
	broken, err = exec.LookPath("false")
	if err != nil {
		t.Skip("false not found")
	}
	return ok, broken
}

func TestBridgeCheck(t *testing.T) {
	t.Parallel()

	ok, broken := interpreters(t)
	cfg := bridgeConfig()
	cfg.Python = ok
	if err := NewBridge(cfg).Check(context.Background()); err != nil {
		t.Fatalf("Check: %v", err)
	}

	cfg.Python = broken
	if err := NewBridge(cfg).Check(context.Background()); !errors.Is(err, ErrInvalidModel) {
		t.Errorf("err = %v, want ErrInvalidModel", err)
	}
}

func TestRegistryReloadKeepsBridgeOnBrokenModel(t *testing.T) {
	t.Parallel()

	ok, broken := interpreters(t)
	cfg := bridgeConfig()
	cfg.Python = broken
	r := NewRegistry(cfg)

	if err := r.Reload(context.Background()); !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("first Reload err = %v, want ErrInvalidModel", err)
	}
	if !r.LoadedAt().IsZero() {
		t.Fatal("a failed first load must not activate the bridge")
	}

	r.bridge.python = ok
	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	loadedAt := r.LoadedAt()
	if loadedAt.IsZero() {
		t.Fatal("bridge should be active after a good load")
	}
	if len(r.bridge.restart) != 0 {
		t.Fatal("the first load must not restart the child")
	}

	r.bridge.python = broken
	if err := r.Reload(context.Background()); !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("Reload err = %v, want ErrInvalidModel", err)
	}
	if len(r.bridge.restart) != 0 {
		t.Error("a broken model must not replace the running child")
	}
	if !r.LoadedAt().Equal(loadedAt) {
		t.Error("the previous load must stay active")
	}

	r.bridge.python = ok
	if err := r.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(r.bridge.restart) != 1 {
		t.Errorf("pending restarts = %d, want 1", len(r.bridge.restart))
	}
}
