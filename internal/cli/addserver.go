package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/lbdash/internal/errors"
	"github.com/rileyhilliard/lbdash/internal/ui"
)

// AddServerOutput represents the JSON output for the add-server command.
// Servers is the pool size reported by a follow-up fetch, or -1 when that
// fetch failed.
type AddServerOutput struct {
	Endpoint string `json:"endpoint"`
	Servers  int    `json:"servers"`
}

// addServerCommand sends one add-server request and reports the new pool size.
func addServerCommand(w io.Writer, yes bool) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	if !yes && !machineMode && stdinIsTerminal() {
		var confirm bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Add a server to %s?", cfg.Endpoint)).
					Value(&confirm),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrExec,
				"Failed to get user input",
				"Pass --yes to skip the confirmation.")
		}
		if !confirm {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newClient(cfg)

	add := func() error { return client.AddServer(ctx) }
	if !machineMode && stdoutIsTerminal() {
		err = ui.NewSpinner(w, "Adding server to "+cfg.Endpoint).Run(add)
	} else {
		err = add()
	}
	if err != nil {
		return mutationFailed(cfg.Endpoint, err)
	}

	count := -1
	if snap, err := client.Fetch(ctx); err == nil {
		count = len(snap)
	}

	if machineMode {
		return WriteJSONSuccess(w, AddServerOutput{Endpoint: cfg.Endpoint, Servers: count})
	}

	if count < 0 {
		fmt.Fprintf(w, "%s Server added. %s\n", ui.SymbolSuccess, ui.MutedStyle().Render("Couldn't read the new pool size."))
		return nil
	}
	fmt.Fprintf(w, "%s Server added. %s now reports %d servers.\n", ui.SymbolSuccess, cfg.Endpoint, count)
	return nil
}
