package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rileyhilliard/lbdash/internal/config"
	"github.com/rileyhilliard/lbdash/internal/errors"
	"github.com/rileyhilliard/lbdash/internal/logger"
	"github.com/rileyhilliard/lbdash/internal/output"
	"github.com/rileyhilliard/lbdash/internal/status"
)

// StatusOutput represents the JSON output for the status command.
type StatusOutput struct {
	Endpoint string          `json:"endpoint"`
	Total    int             `json:"total"`
	Healthy  int             `json:"healthy"`
	Servers  status.Snapshot `json:"servers"`
}

// statusCommand fetches one snapshot and writes it in the requested format.
func statusCommand(w io.Writer, format string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	formatter, err := output.ForName(format)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Unknown output format '%s'", format),
			"Use one of: "+strings.Join(output.Names, ", "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := newClient(cfg).Fetch(ctx)
	if err != nil {
		return fetchFailed(cfg.Endpoint, err)
	}

	if machineMode {
		if snap == nil {
			snap = status.Snapshot{}
		}
		return WriteJSONSuccess(w, StatusOutput{
			Endpoint: cfg.Endpoint,
			Total:    len(snap),
			Healthy:  snap.HealthyCount(),
			Servers:  snap,
		})
	}

	return formatter.Write(w, snap)
}

// newClient builds a status API client from the config.
func newClient(cfg *config.Config) *status.Client {
	return status.NewClient(cfg.Endpoint,
		status.WithTimeout(cfg.Timeout),
		status.WithLogger(logger.NewEnvLogger("lbdash")))
}

// fetchFailed turns a client fetch error into a structured error.
func fetchFailed(endpoint string, err error) error {
	suggestion := fmt.Sprintf("Check that the load balancer is reachable at %s, or set --endpoint.", endpoint)

	var fetchErr *status.FetchError
	if stderrors.As(err, &fetchErr) {
		switch {
		case stderrors.Is(err, status.ErrMalformedPayload):
			suggestion = fmt.Sprintf("%s answered, but not with a server list. Is this the right endpoint?", endpoint)
		case fetchErr.StatusCode != 0:
			suggestion = fmt.Sprintf("The status API answered HTTP %d. Check the load balancer's logs.", fetchErr.StatusCode)
		}
	}

	return errors.WrapWithCode(err, errors.ErrFetch, status.FetchFailedMessage, suggestion)
}

// mutationFailed turns a client add-server error into a structured error.
func mutationFailed(endpoint string, err error) error {
	suggestion := fmt.Sprintf("Check that the load balancer is reachable at %s.", endpoint)

	var mutErr *status.MutationError
	if stderrors.As(err, &mutErr) && mutErr.StatusCode != 0 {
		suggestion = fmt.Sprintf("The load balancer refused with HTTP %d. It may be at capacity.", mutErr.StatusCode)
	}

	return errors.WrapWithCode(err, errors.ErrMutation, status.AddServerFailedMessage, suggestion)
}
