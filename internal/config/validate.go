package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rileyhilliard/lbdash/internal/errors"
)

// MinInterval is the shortest refresh cadence accepted.
const MinInterval = 500 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but lbdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade lbdash or lower the version in .lbdash.yaml.")
	}

	if err := ValidateEndpoint(cfg.Endpoint); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Set 'endpoint' to something like http://localhost:8080.")
	}

	if err := validateTiming(cfg.Interval, cfg.Timeout); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check 'interval' and 'timeout' in your .lbdash.yaml.")
	}

	if err := validateBackend(cfg.Backend); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'backend' section in your .lbdash.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .lbdash.yaml.")
	}

	return nil
}

// ValidateEndpoint checks that the endpoint is an absolute http(s) URL.
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint is empty")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("endpoint '%s' isn't a valid URL: %v", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint '%s' needs an http:// or https:// scheme", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint '%s' has no host", endpoint)
	}
	return nil
}

func validateTiming(interval, timeout time.Duration) error {
	if interval < MinInterval {
		return fmt.Errorf("interval %v is too short - minimum is %v", interval, MinInterval)
	}
	if timeout < 0 {
		return fmt.Errorf("timeout can't be negative")
	}
	return nil
}

func validateBackend(b BackendConfig) error {
	if b.Addr == "" {
		return fmt.Errorf("backend.addr is empty")
	}
	if b.MaxServers < 1 {
		return fmt.Errorf("backend.max_servers must be at least 1, got %d", b.MaxServers)
	}
	if b.InitialServers < 0 {
		return fmt.Errorf("backend.initial_servers can't be negative")
	}
	if b.InitialServers > b.MaxServers {
		return fmt.Errorf("backend.initial_servers (%d) is more than backend.max_servers (%d)", b.InitialServers, b.MaxServers)
	}
	if b.DriftInterval <= 0 {
		return fmt.Errorf("backend.drift_interval must be positive")
	}
	if b.FailRate < 0 || b.FailRate > 1 {
		return fmt.Errorf("backend.fail_rate %v is out of range - use a value between 0 and 1", b.FailRate)
	}
	return nil
}

// validateOutput checks output configuration.
func validateOutput(out OutputConfig) error {
	validColors := map[string]bool{"auto": true, "always": true, "never": true, "": true}
	if !validColors[out.Color] {
		return fmt.Errorf("output.color '%s' isn't valid - use 'auto', 'always', or 'never'", out.Color)
	}
	return nil
}
