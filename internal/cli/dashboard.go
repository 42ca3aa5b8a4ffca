package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/lbdash/internal/config"
	"github.com/rileyhilliard/lbdash/internal/errors"
	"github.com/rileyhilliard/lbdash/internal/logger"
	"github.com/rileyhilliard/lbdash/internal/monitor"
	"github.com/rileyhilliard/lbdash/internal/output"
	"github.com/rileyhilliard/lbdash/internal/status"
)

// debugLogFile receives log output while the full-screen UI owns the
// terminal and LBDASH_DEBUG is set.
const debugLogFile = "lbdash-debug.log"

// dashboardOptions holds the dashboard command's flags.
type dashboardOptions struct {
	Interval string
	Plain    bool
}

func dashboardFlags() dashboardOptions {
	return dashboardOptions{
		Interval: dashboardIntervalFlag,
		Plain:    dashboardPlainFlag,
	}
}

// dashboardCommand runs the live dashboard until the user quits or the
// process is signalled.
func dashboardCommand(opts dashboardOptions) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	interval, err := resolveInterval(cfg, opts.Interval)
	if err != nil {
		return err
	}

	log := logger.NewEnvLogger("lbdash")
	client := status.NewClient(cfg.Endpoint,
		status.WithTimeout(cfg.Timeout),
		status.WithLogger(log))
	engine := status.NewEngine(client, status.Options{Interval: interval, Logger: log})
	defer engine.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Plain || !stdoutIsTerminal() {
		return runPlainDashboard(ctx, engine, os.Stdout)
	}
	return runInteractiveDashboard(ctx, engine, cfg)
}

// resolveInterval returns the --interval override when set, otherwise the
// configured interval.
func resolveInterval(cfg *config.Config, flag string) (time.Duration, error) {
	if flag == "" {
		return cfg.Interval, nil
	}
	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid refresh interval '%s'", flag),
			"Use a duration like 5s, 30s, or 1m.")
	}
	if d < config.MinInterval {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval %s is too short", d),
			fmt.Sprintf("Use at least %s.", config.MinInterval))
	}
	return d, nil
}

// runInteractiveDashboard hands the terminal to the Bubble Tea model.
func runInteractiveDashboard(ctx context.Context, engine *status.Engine, cfg *config.Config) error {
	// Log lines would corrupt the alternate screen.
	if os.Getenv(logger.DebugEnv) != "" {
		f, err := tea.LogToFile(debugLogFile, "lbdash")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrExec,
				"Couldn't open the debug log",
				"Unset "+logger.DebugEnv+" or check write permissions in this directory.")
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger.SetOutput(io.Discard)
	}
	defer logger.SetOutput(os.Stderr)

	updates, unsubscribe := engine.Subscribe()
	defer unsubscribe()

	model := monitor.NewModel(engine, monitor.Options{
		Endpoint:   cfg.Endpoint,
		Updates:    updates,
		AddTimeout: cfg.Timeout,
	})

	engine.Start()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		// Interrupted by a signal, not a failure.
		return nil
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Dashboard exited unexpectedly",
			"Try --plain if your terminal doesn't support the full-screen UI.")
	}
	return nil
}

// engineRunner is the part of the engine the plain renderer drives.
type engineRunner interface {
	Start()
	Subscribe() (<-chan status.State, func())
}

// runPlainDashboard prints one line per State change until ctx is done or
// the engine closes its subscription.
func runPlainDashboard(ctx context.Context, engine engineRunner, w io.Writer) error {
	updates, unsubscribe := engine.Subscribe()
	defer unsubscribe()

	sw := output.NewStateWriter(w)
	engine.Start()

	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-updates:
			if !ok {
				return nil
			}
			if err := sw.Write(s); err != nil {
				return err
			}
		}
	}
}
