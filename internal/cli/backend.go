package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/lbdash/internal/backend"
	"github.com/rileyhilliard/lbdash/internal/config"
	"github.com/rileyhilliard/lbdash/internal/errors"
	"github.com/rileyhilliard/lbdash/internal/logger"
	"github.com/rileyhilliard/lbdash/internal/ui"
)

// backendOptions holds the backend command's flags. Only flags the user
// actually set override the config.
type backendOptions struct {
	Addr           string
	InitialServers int
	MaxServers     int
	DriftInterval  time.Duration
	FailRate       float64
	Seed           uint64
}

// registerBackendFlags binds the backend flags on cmd to opts.
func registerBackendFlags(cmd *cobra.Command, opts *backendOptions) {
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&opts.InitialServers, "initial-servers", 0, "servers in the pool at startup")
	cmd.Flags().IntVar(&opts.MaxServers, "max-servers", 0, "pool size cap; 0 means unlimited")
	cmd.Flags().DurationVar(&opts.DriftInterval, "drift-interval", 0, "how often simulated metrics move; 0 freezes them")
	cmd.Flags().Float64Var(&opts.FailRate, "fail-rate", 0, "fraction of status requests answered with 503")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed for a reproducible simulation; 0 picks one")
}

// applyBackendFlags copies explicitly set flags from cmd onto cfg.
func applyBackendFlags(cmd *cobra.Command, opts backendOptions, cfg *config.BackendConfig) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = opts.Addr
	}
	if flags.Changed("initial-servers") {
		cfg.InitialServers = opts.InitialServers
	}
	if flags.Changed("max-servers") {
		cfg.MaxServers = opts.MaxServers
	}
	if flags.Changed("drift-interval") {
		cfg.DriftInterval = opts.DriftInterval
	}
	if flags.Changed("fail-rate") {
		cfg.FailRate = opts.FailRate
	}
}

// backendCommand serves the simulated status API until interrupted.
func backendCommand(cmd *cobra.Command, opts backendOptions) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	applyBackendFlags(cmd, opts, &cfg.Backend)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	srv := newBackendServer(cfg.Backend, opts.Seed, logger.NewEnvLogger("lbdash.backend"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "%s Serving the status API on %s %s\n",
		ui.SymbolSuccess, cfg.Backend.Addr, ui.MutedStyle().Render("(Ctrl+C to stop)"))

	if err := srv.Run(ctx); err != nil {
		return errors.WrapWithCode(err, errors.ErrServe,
			fmt.Sprintf("Couldn't serve on %s", cfg.Backend.Addr),
			"Check the address is valid and not already in use, or pick another with --addr.")
	}
	return nil
}

// newBackendServer builds the simulated pool and its HTTP server.
func newBackendServer(cfg config.BackendConfig, seed uint64, log logger.Logger) *backend.Server {
	pool := backend.NewPool(backend.PoolOptions{
		Initial: cfg.InitialServers,
		Max:     cfg.MaxServers,
		Seed:    seed,
	})

	return backend.New(pool, backend.Options{
		Addr:          cfg.Addr,
		FailRate:      cfg.FailRate,
		DriftInterval: cfg.DriftInterval,
		CORSOrigins:   cfg.CORSOrigins,
		Version:       version,
		Logger:        log,
	})
}
