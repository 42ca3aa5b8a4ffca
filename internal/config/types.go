package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .lbdash.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Endpoint is the base URL of the load balancer's status API.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Interval is the periodic refresh cadence.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	Backend BackendConfig `yaml:"backend" mapstructure:"backend"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// BackendConfig controls the demo status backend served by 'lbdash backend'.
type BackendConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr" mapstructure:"addr"`

	// MaxServers caps the pool; add_server is refused beyond it.
	MaxServers int `yaml:"max_servers" mapstructure:"max_servers"`

	// InitialServers is the pool size at startup.
	InitialServers int `yaml:"initial_servers" mapstructure:"initial_servers"`

	// DriftInterval is how often simulated metrics move.
	DriftInterval time.Duration `yaml:"drift_interval" mapstructure:"drift_interval"`

	// FailRate is the fraction of status requests answered with 503.
	FailRate float64 `yaml:"fail_rate" mapstructure:"fail_rate"`

	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Endpoint: "http://localhost:8080",
		Interval: 10 * time.Second,
		Timeout:  0,
		Backend: BackendConfig{
			Addr:           ":8080",
			MaxServers:     10,
			InitialServers: 3,
			DriftInterval:  2 * time.Second,
			FailRate:       0,
			CORSOrigins:    []string{"*"},
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
