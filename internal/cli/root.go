package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/lbdash/internal/config"
	"github.com/rileyhilliard/lbdash/internal/ui"
)

// Global flags
var (
	cfgFile      string
	endpointFlag string
	noColor      bool
)

// rootCmd opens the dashboard when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "lbdash",
	Short: "Live dashboard for a load balancer's server pool",
	Long: `lbdash polls a load balancer's status API and shows every backend server
with its health, request count, connections, and CPU/memory load.

The dashboard refreshes every 10 seconds. Press r to refresh now and a to
ask the load balancer for another server.

Examples:
  lbdash
  lbdash --endpoint http://lb.internal:8080
  lbdash status -o json
  lbdash backend --max-servers 20`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(dashboardFlags())
	},
}

func init() {
	// reportError prints its own suggestion.
	rootCmd.DisableSuggestions = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .lbdash.yaml, then ~/.config/lbdash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "status API base URL, overrides the config")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&machineMode, "json", false, "machine-readable JSON output")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(os.Stdout, os.Stderr, err))
	}
}

// reportError prints err for a human or, in machine mode, as a JSON envelope
// on out. It returns the process exit code.
func reportError(out, errOut io.Writer, err error) int {
	if machineMode {
		_ = WriteJSONFromError(out, err)
		return 1
	}

	if isUnknownCommandError(err) {
		fmt.Fprintln(errOut, ui.ErrorStyle().Render(ui.SymbolFail+" "+err.Error()))
		if name := extractUnknownCommand(err); name != "" {
			if suggestions := rootCmd.SuggestionsFor(name); len(suggestions) > 0 {
				fmt.Fprintln(errOut, "\n  "+ui.InfoStyle().Render(fmt.Sprintf("Did you mean '%s'?", suggestions[0])))
			}
		}
		fmt.Fprintln(errOut, "\n  Run 'lbdash --help' to see available commands.")
		return 2
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, ui.SymbolFail) {
		msg = ui.SymbolFail + " " + msg
	}
	fmt.Fprintln(errOut, strings.TrimRight(msg, "\n"))
	return 1
}

// isUnknownCommandError reports whether err is cobra's unknown command or
// flag error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of
// `unknown command "foo" for "lbdash"`.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// loadConfig resolves the config file (or defaults), applies the global
// flag overrides and validates the result. It also applies the color mode.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}

	if endpointFlag != "" {
		cfg.Endpoint = endpointFlag
	}
	if noColor {
		cfg.Output.Color = "never"
	}

	if err := config.Validate(cfg); err != nil {
		return nil, path, err
	}

	ui.ApplyColorMode(cfg.Output.Color, stdoutIsTerminal())
	return cfg, path, nil
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
