package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/lbdash/internal/config"
	"github.com/rileyhilliard/lbdash/internal/errors"
	"github.com/rileyhilliard/lbdash/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Endpoint       string // Pre-specified status API URL
	Dir            string // Directory to write into; defaults to "."
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
}

// Init creates a new .lbdash.yaml configuration file.
func Init(w io.Writer, opts InitOptions) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	configPath := filepath.Join(dir, config.ConfigFileName)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" && !opts.NonInteractive {
		endpoint = cfg.Endpoint
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Status API endpoint").
					Description("Base URL of the load balancer; lbdash calls /api/status and /api/add_server under it").
					Placeholder(cfg.Endpoint).
					Value(&endpoint).
					Validate(config.ValidateEndpoint),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Pass --endpoint to skip the prompt")
		}
		endpoint = strings.TrimSpace(endpoint)
	}

	if endpoint != "" {
		if err := config.ValidateEndpoint(endpoint); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Invalid endpoint '%s'", endpoint),
				"Use an absolute URL like http://localhost:8080")
		}
		cfg.Endpoint = endpoint
	}

	if err := config.Write(configPath, cfg, true); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check write permissions in "+dir)
	}

	fmt.Fprintf(w, "%s Created %s\n", ui.SymbolSuccess, configPath)
	fmt.Fprintf(w, "  %s\n", ui.MutedStyle().Render("Run 'lbdash backend' for a demo API, then 'lbdash' to open the dashboard."))
	return nil
}
