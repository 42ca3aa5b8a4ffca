package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/lbdash/internal/errors"
)

// Command-specific flags
var (
	dashboardIntervalFlag string
	dashboardPlainFlag    bool
	statusOutputFlag      string
	addServerYesFlag      bool
	backendFlags          backendOptions
	initForce             bool
)

// dashboardCmd is the explicit form of running lbdash with no subcommand.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "ui"},
	Short:   "Open the live server dashboard",
	Long: `Open the full-screen dashboard for the configured load balancer.

The server list refreshes on a fixed interval. A failed refresh keeps the last
good data on screen with an error banner until the next success.

When stdout is not a terminal (or with --plain) one summary line is printed
per update instead.

Keys:
  r        refresh now
  a        add a server
  s        cycle sort order
  enter    server details
  ?        help
  q        quit

Examples:
  lbdash dashboard
  lbdash dashboard --interval 5s
  lbdash dashboard --plain | tee lb.log`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(dashboardFlags())
	},
}

// statusCmd fetches one snapshot and prints it
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current server list once",
	Long: `Fetch the server list from the status API once and print it.

Examples:
  lbdash status
  lbdash status -o yaml
  lbdash status --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand(cmd.OutOrStdout(), statusOutputFlag)
	},
}

// addServerCmd asks the load balancer for one more server
var addServerCmd = &cobra.Command{
	Use:     "add-server",
	Aliases: []string{"add"},
	Short:   "Ask the load balancer to add a server",
	Long: `Send an add-server request to the load balancer and report the new pool size.

The request is never retried. Prompts for confirmation on a terminal unless
--yes is given.

Examples:
  lbdash add-server
  lbdash add-server --yes --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return addServerCommand(cmd.OutOrStdout(), addServerYesFlag)
	},
}

// backendCmd serves a simulated status API for local use
var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run a simulated load balancer status API",
	Long: `Serve GET /api/status and POST /api/add_server over an in-memory pool of
simulated servers whose metrics drift over time.

Useful for trying the dashboard without a real load balancer.

Examples:
  lbdash backend
  lbdash backend --addr :9090 --initial-servers 5
  lbdash backend --fail-rate 0.2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return backendCommand(cmd, backendFlags)
	},
}

// initCmd creates a new .lbdash.yaml config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .lbdash.yaml config file",
	Long: `Create a .lbdash.yaml file in the current directory.

Examples:
  lbdash init
  lbdash init --endpoint http://lb.internal:8080
  lbdash init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.OutOrStdout(), InitOptions{
			Endpoint:       endpointFlag,
			Overwrite:      initForce,
			NonInteractive: !stdinIsTerminal() || os.Getenv("CI") != "",
		})
	},
}

// configCmd prints the resolved configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Print the configuration lbdash would use, after applying the config file,
LBDASH_* environment variables and command-line overrides.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configCommand(cmd.OutOrStdout())
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for lbdash.

Examples:
  # Bash
  lbdash completion bash > /etc/bash_completion.d/lbdash

  # Zsh
  lbdash completion zsh > "${fpath[1]}/_lbdash"

  # Fish
  lbdash completion fish > ~/.config/fish/completions/lbdash.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrExec,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// dashboard flags, accepted with or without the subcommand
	for _, cmd := range []*cobra.Command{rootCmd, dashboardCmd} {
		cmd.Flags().StringVar(&dashboardIntervalFlag, "interval", "", "refresh interval (e.g., 5s, 1m); defaults to the config")
		cmd.Flags().BoolVar(&dashboardPlainFlag, "plain", false, "print one line per update instead of the full-screen UI")
	}

	// status flags
	statusCmd.Flags().StringVarP(&statusOutputFlag, "output", "o", "table", "output format: table, json, yaml, toml")

	// add-server flags
	addServerCmd.Flags().BoolVarP(&addServerYesFlag, "yes", "y", false, "skip the confirmation prompt")

	// backend flags
	registerBackendFlags(backendCmd, &backendFlags)

	// init flags
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	// Register all commands
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(addServerCmd)
	rootCmd.AddCommand(backendCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}
