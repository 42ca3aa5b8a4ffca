package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/lbdash/internal/backend"
	"github.com/rileyhilliard/lbdash/internal/config"
	"github.com/rileyhilliard/lbdash/internal/errors"
	"github.com/rileyhilliard/lbdash/internal/logger"
	"github.com/rileyhilliard/lbdash/internal/status"
)

func TestResolveInterval(t *testing.T) {
	cfg := config.DefaultConfig()

	d, err := resolveInterval(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	d, err = resolveInterval(cfg, "5s")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, d)

	_, err = resolveInterval(cfg, "soon")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	_, err = resolveInterval(cfg, "10ms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestDashboardFlags(t *testing.T) {
	resetGlobals(t)
	dashboardIntervalFlag = "3s"
	dashboardPlainFlag = true

	assert.Equal(t, dashboardOptions{Interval: "3s", Plain: true}, dashboardFlags())
}

// scriptedEngine replays fixed states as soon as it is started.
type scriptedEngine struct {
	states  []status.State
	ch      chan status.State
	started bool
}

func (e *scriptedEngine) Subscribe() (<-chan status.State, func()) {
	e.ch = make(chan status.State, len(e.states))
	return e.ch, func() {}
}

func (e *scriptedEngine) Start() {
	e.started = true
	for _, s := range e.states {
		e.ch <- s
	}
	close(e.ch)
}

func TestRunPlainDashboard_PrintsEachChange(t *testing.T) {
	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.Local)
	snap := status.Snapshot{{ID: "server-1", Host: "localhost", Port: 9001, Healthy: true, CPUUsage: 10, MemUsage: 20}}

	good := status.State{Snapshot: snap, LastUpdated: ts}
	failed := good
	failed.ErrorMessage = status.FetchFailedMessage

	engine := &scriptedEngine{states: []status.State{good, good, failed}}

	var buf bytes.Buffer
	require.NoError(t, runPlainDashboard(context.Background(), engine, &buf))
	assert.True(t, engine.started)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, "identical states print once")
	assert.Contains(t, lines[0], "12:00:00 1 servers, 1 healthy")
	assert.Contains(t, lines[1], status.FetchFailedMessage)
	assert.Contains(t, lines[1], "server-1", "failed refresh keeps the previous servers")
}

// chanWriter hands every write to a channel so tests can wait on output.
type chanWriter chan string

func (c chanWriter) Write(p []byte) (int, error) {
	c <- string(p)
	return len(p), nil
}

func TestRunPlainDashboard_LiveEngine(t *testing.T) {
	_, url := startBackend(t, backend.PoolOptions{Initial: 2, Seed: 1})

	engine := status.NewEngine(status.NewClient(url), status.Options{
		Interval: time.Hour,
		Logger:   logger.Noop(),
	})
	defer engine.Close()

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chanWriter, 16)
	done := make(chan error, 1)
	go func() { done <- runPlainDashboard(ctx, engine, out) }()

	select {
	case line := <-out:
		assert.Contains(t, line, "2 servers")
		assert.Contains(t, line, "server-1")
	case <-time.After(5 * time.Second):
		t.Fatal("no state printed after start")
	}
	assert.True(t, engine.Running())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runPlainDashboard did not return after cancel")
	}
}

func TestRunPlainDashboard_StopsWhenEngineCloses(t *testing.T) {
	_, url := startBackend(t, backend.PoolOptions{Initial: 1, Seed: 1})
	engine := status.NewEngine(status.NewClient(url), status.Options{Interval: time.Hour, Logger: logger.Noop()})

	done := make(chan error, 1)
	go func() { done <- runPlainDashboard(context.Background(), engine, io.Discard) }()

	require.Eventually(t, engine.Running, 2*time.Second, 5*time.Millisecond)
	engine.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runPlainDashboard did not return after engine close")
	}
}
