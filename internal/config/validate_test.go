package config

import (
	"testing"
	"time"

	"github.com/rileyhilliard/lbdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) {},
		},
		{
			name:    "version too high",
			modify:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: true,
			errMsg:  "from the future",
		},
		{
			name:    "empty endpoint",
			modify:  func(c *Config) { c.Endpoint = "" },
			wantErr: true,
			errMsg:  "endpoint is empty",
		},
		{
			name:    "endpoint without scheme",
			modify:  func(c *Config) { c.Endpoint = "localhost:8080" },
			wantErr: true,
			errMsg:  "http:// or https://",
		},
		{
			name:    "endpoint with other scheme",
			modify:  func(c *Config) { c.Endpoint = "ftp://lb" },
			wantErr: true,
			errMsg:  "http:// or https://",
		},
		{
			name:    "endpoint without host",
			modify:  func(c *Config) { c.Endpoint = "http://" },
			wantErr: true,
			errMsg:  "has no host",
		},
		{
			name:   "https endpoint",
			modify: func(c *Config) { c.Endpoint = "https://lb.example.com/base" },
		},
		{
			name:    "interval too short",
			modify:  func(c *Config) { c.Interval = 100 * time.Millisecond },
			wantErr: true,
			errMsg:  "too short",
		},
		{
			name:   "interval at minimum",
			modify: func(c *Config) { c.Interval = MinInterval },
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: true,
			errMsg:  "timeout can't be negative",
		},
		{
			name:    "empty backend addr",
			modify:  func(c *Config) { c.Backend.Addr = "" },
			wantErr: true,
			errMsg:  "backend.addr",
		},
		{
			name:    "zero max servers",
			modify:  func(c *Config) { c.Backend.MaxServers = 0 },
			wantErr: true,
			errMsg:  "max_servers",
		},
		{
			name: "initial above max",
			modify: func(c *Config) {
				c.Backend.MaxServers = 2
				c.Backend.InitialServers = 3
			},
			wantErr: true,
			errMsg:  "more than backend.max_servers",
		},
		{
			name:   "empty initial pool",
			modify: func(c *Config) { c.Backend.InitialServers = 0 },
		},
		{
			name:    "fail rate above one",
			modify:  func(c *Config) { c.Backend.FailRate = 1.5 },
			wantErr: true,
			errMsg:  "fail_rate",
		},
		{
			name:    "negative fail rate",
			modify:  func(c *Config) { c.Backend.FailRate = -0.1 },
			wantErr: true,
			errMsg:  "fail_rate",
		},
		{
			name:    "zero drift interval",
			modify:  func(c *Config) { c.Backend.DriftInterval = 0 },
			wantErr: true,
			errMsg:  "drift_interval",
		},
		{
			name:    "bad color",
			modify:  func(c *Config) { c.Output.Color = "rainbow" },
			wantErr: true,
			errMsg:  "output.color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := Validate(cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
