package cli

import (
	"fmt"
	"io"

	"github.com/rileyhilliard/lbdash/internal/config"
	"github.com/rileyhilliard/lbdash/internal/ui"
)

// ConfigOutput represents the JSON output for the config command.
type ConfigOutput struct {
	Path     string `json:"path,omitempty"`
	Endpoint string `json:"endpoint"`
	Interval string `json:"interval"`
	Timeout  string `json:"timeout"`
	Color    string `json:"color"`
}

// configCommand prints the resolved config and where it came from.
func configCommand(w io.Writer) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	if machineMode {
		return WriteJSONSuccess(w, ConfigOutput{
			Path:     path,
			Endpoint: cfg.Endpoint,
			Interval: cfg.Interval.String(),
			Timeout:  cfg.Timeout.String(),
			Color:    cfg.Output.Color,
		})
	}

	source := path
	if source == "" {
		source = "built-in defaults (no " + config.ConfigFileName + " found)"
	}
	fmt.Fprintln(w, ui.MutedStyle().Render("# source: "+source))

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
