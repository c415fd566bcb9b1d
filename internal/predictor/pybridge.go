// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package predictor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"text/template"
	"time"

	"github.com/goccy/go-json"
	"github.com/xh3b4sd/tracer"

	"github.com/tomtom215/getaround/internal/config"
	"github.com/tomtom215/getaround/internal/logging"
	"github.com/tomtom215/getaround/internal/metrics"
	"github.com/tomtom215/getaround/internal/models"
)

const bridgeAddr = "127.0.0.1"

// readyPoll is how often the bridge probes the child while it starts.
const readyPoll = 250 * time.Millisecond

// Bridge serves joblib pipelines through a child Python process listening
// on localhost. It implements Predictor and suture.Service: Serve starts the
// child, blocks until ctx is done, and returns an error when the child dies
// so the supervisor restarts it.
type Bridge struct {
	python         string
	modelPath      string
	preproPath     string
	port           int
	startupTimeout time.Duration
	requestTimeout time.Duration

	url    string
	client *http.Client

	ready   atomic.Bool
	restart chan struct{}

	mu   sync.Mutex
	cmd  *exec.Cmd
	file string
}

// NewBridge prepares a bridge. Nothing is started until Serve.
func NewBridge(cfg config.ModelConfig) *Bridge {
	return &Bridge{
		python:         cfg.Python,
		modelPath:      cfg.Path,
		preproPath:     cfg.PreprocessorPath,
		port:           cfg.BridgePort,
		startupTimeout: cfg.StartupTimeout,
		requestTimeout: cfg.RequestTimeout,
		url:            fmt.Sprintf("http://%s:%d", bridgeAddr, cfg.BridgePort),
		client:         &http.Client{},
		restart:        make(chan struct{}, 1),
	}
}

// Name implements Predictor.
func (b *Bridge) Name() string { return config.BackendJoblib }

// String names the service in supervisor logs.
func (b *Bridge) String() string { return "python-bridge" }

// Ready reports whether the child answered its readiness probe.
func (b *Bridge) Ready() bool { return b.ready.Load() }

// checkScript loads every file given on the command line and exits non-zero
// if one of them cannot be unpickled.
const checkScript = `import sys, joblib
for path in sys.argv[1:]:
    joblib.load(path)
`

// Check loads the model files in a one-shot interpreter, so a broken file is
// caught before the running child is replaced.
func (b *Bridge) Check(ctx context.Context) error {
	timeout := b.startupTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{"-c", checkScript, b.modelPath}
	if b.preproPath != "" {
		args = append(args, b.preproPath)
	}
	cmd := exec.CommandContext(ctx, b.python, args...) //nolint:gosec // interpreter comes from operator config
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if len(msg) > 512 {
			msg = msg[len(msg)-512:]
		}
		return fmt.Errorf("%w: %s: %w: %s", ErrInvalidModel, b.modelPath, err, msg)
	}
	return nil
}

// Restart asks Serve to replace the child, for example after the model file
// changed. It does not block.
func (b *Bridge) Restart() {
	select {
	case b.restart <- struct{}{}:
	default:
	}
}

// Serve implements suture.Service.
func (b *Bridge) Serve(ctx context.Context) error {
	log := logging.WithComponent("python-bridge")
	for {
		done, err := b.start(ctx)
		if err != nil {
			return err
		}
		log.Info().Str("url", b.url).Str("model", b.modelPath).Msg("Python bridge ready")

		select {
		case <-ctx.Done():
			b.stop(done)
			return ctx.Err()
		case err := <-done:
			b.ready.Store(false)
			b.cleanup()
			metrics.BridgeRestarts.Inc()
			if err == nil {
				err = errors.New("exited")
			}
			return tracer.Mask(fmt.Errorf("python bridge: %w", err))
		case <-b.restart:
			log.Info().Msg("Restarting Python bridge")
			b.stop(done)
			metrics.BridgeRestarts.Inc()
		}
	}
}

// start renders the script, runs it and waits for the readiness probe.
func (b *Bridge) start(ctx context.Context) (<-chan error, error) {
	var err error

	var script []byte
	{
		script, err = b.render()
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	var f *os.File
	{
		f, err = os.CreateTemp("", "getaround-bridge-*.py")
		if err != nil {
			return nil, tracer.Mask(err)
		}
		if _, err := f.Write(script); err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
			return nil, tracer.Mask(err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(f.Name())
			return nil, tracer.Mask(err)
		}
	}

	cmd := exec.Command(b.python, f.Name()) //nolint:gosec // interpreter comes from operator config
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	{
		if err := cmd.Start(); err != nil {
			_ = os.Remove(f.Name())
			return nil, tracer.Mask(err)
		}
	}

	b.mu.Lock()
	b.cmd = cmd
	b.file = f.Name()
	b.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	if err := b.waitReady(ctx, done); err != nil {
		b.stop(done)
		return nil, err
	}
	b.ready.Store(true)
	return done, nil
}

func (b *Bridge) waitReady(ctx context.Context, done <-chan error) error {
	deadline := time.NewTimer(b.startupTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(readyPoll)
	defer ticker.Stop()

	for {
		if b.checker(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			return tracer.Mask(fmt.Errorf("python bridge exited during startup: %w", err))
		case <-deadline.C:
			return tracer.Mask(fmt.Errorf("python bridge not ready after %s", b.startupTimeout))
		case <-ticker.C:
		}
	}
}

// checker reports whether GET / answers "OK".
func (b *Bridge) checker(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, http.NoBody)
	if err != nil {
		return false
	}
	res, err := b.client.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()
	bod, err := io.ReadAll(io.LimitReader(res.Body, 64))
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(bod)) == "OK"
}

// stop kills the child, waits for it and removes the script.
func (b *Bridge) stop(done <-chan error) {
	b.ready.Store(false)
	b.mu.Lock()
	cmd := b.cmd
	b.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			logging.Warn().Err(err).Msg("Failed to kill Python bridge")
		}
		<-done
	}
	b.cleanup()
}

func (b *Bridge) cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.file != "" {
		_ = os.Remove(b.file)
		b.file = ""
	}
	b.cmd = nil
}

func (b *Bridge) render() ([]byte, error) {
	t, err := template.New("bridge").Funcs(template.FuncMap{
		"pyq": pythonQuote,
	}).Parse(bridgeScript)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = t.Execute(&buf, map[string]any{
		"Model":  b.modelPath,
		"Prepro": b.preproPath,
		"Addr":   bridgeAddr,
		"Port":   b.port,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pythonQuote renders s as a Python string literal. JSON string escapes are
// a subset of Python's.
func pythonQuote(s string) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Predict implements Predictor.
func (b *Bridge) Predict(ctx context.Context, f *models.PredictionFeatures) (float64, error) {
	if !b.ready.Load() {
		return 0, ErrNotReady
	}
	if b.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.requestTimeout)
		defer cancel()
	}

	var err error

	var byt []byte
	{
		byt, err = json.Marshal(f)
		if err != nil {
			return 0, tracer.Mask(err)
		}
	}

	var req *http.Request
	{
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(byt))
		if err != nil {
			return 0, tracer.Mask(err)
		}
		req.Header.Set("Content-Type", "application/json")
	}

	var res *http.Response
	{
		res, err = b.client.Do(req)
		if err != nil {
			return 0, tracer.Mask(err)
		}
		defer res.Body.Close()
	}

	var bod []byte
	{
		bod, err = io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return 0, tracer.Mask(err)
		}
	}

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s", ErrFeatureMismatch, strings.TrimSpace(string(bod)))
	}

	flo, err := strconv.ParseFloat(strings.TrimSpace(string(bod)), 64)
	if err != nil {
		return 0, tracer.Mask(err)
	}
	return flo, nil
}
