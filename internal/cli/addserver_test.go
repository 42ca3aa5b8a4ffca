package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/lbdash/internal/backend"
	"github.com/rileyhilliard/lbdash/internal/errors"
	"github.com/rileyhilliard/lbdash/internal/status"
)

func TestAddServerCommand(t *testing.T) {
	pool, url := startBackend(t, backend.PoolOptions{Initial: 2, Max: 5, Seed: 1})
	useTestConfig(t, url)

	var buf bytes.Buffer
	require.NoError(t, addServerCommand(&buf, true))

	assert.Equal(t, 3, pool.Len())
	assert.Contains(t, buf.String(), "Server added")
	assert.Contains(t, buf.String(), "now reports 3 servers")
}

func TestAddServerCommand_MachineMode(t *testing.T) {
	_, url := startBackend(t, backend.PoolOptions{Initial: 1, Seed: 1})
	useTestConfig(t, url)
	machineMode = true

	var buf bytes.Buffer
	require.NoError(t, addServerCommand(&buf, true))

	var env struct {
		Success bool            `json:"success"`
		Data    AddServerOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, 2, env.Data.Servers)
}

func TestAddServerCommand_PoolFull(t *testing.T) {
	pool, url := startBackend(t, backend.PoolOptions{Initial: 2, Max: 2, Seed: 1})
	useTestConfig(t, url)

	err := addServerCommand(&bytes.Buffer{}, true)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrMutation))
	assert.Contains(t, err.Error(), status.AddServerFailedMessage)
	assert.Contains(t, err.Error(), "HTTP 409")
	assert.Equal(t, 2, pool.Len(), "a refused request is not retried")
}

func TestAddServerCommand_Unreachable(t *testing.T) {
	useTestConfig(t, "http://127.0.0.1:1")

	err := addServerCommand(&bytes.Buffer{}, true)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrMutation))
	assert.Contains(t, err.Error(), "reachable")
}
