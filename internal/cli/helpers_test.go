package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/lbdash/internal/backend"
	"github.com/rileyhilliard/lbdash/internal/config"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// resetGlobals restores every package-level flag variable after the test.
func resetGlobals(t *testing.T) {
	t.Helper()
	saved := struct {
		cfgFile, endpoint, interval, output string
		noColor, machine, plain, yes, short bool
		force                               bool
	}{cfgFile, endpointFlag, dashboardIntervalFlag, statusOutputFlag,
		noColor, machineMode, dashboardPlainFlag, addServerYesFlag, versionShort, initForce}

	t.Cleanup(func() {
		cfgFile, endpointFlag, dashboardIntervalFlag, statusOutputFlag = saved.cfgFile, saved.endpoint, saved.interval, saved.output
		noColor, machineMode, dashboardPlainFlag, addServerYesFlag, versionShort = saved.noColor, saved.machine, saved.plain, saved.yes, saved.short
		initForce = saved.force
	})
}

// executeCommand runs the real root command with args and returns what it
// wrote to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetGlobals(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// useTestConfig writes a config pointing at endpoint into a temp dir and
// selects it through the --config global.
func useTestConfig(t *testing.T, endpoint string) string {
	t.Helper()
	resetGlobals(t)

	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	cfg := config.DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.Timeout = 2 * time.Second
	require.NoError(t, config.Write(path, cfg, false))

	cfgFile = path
	endpointFlag = ""
	noColor = true
	machineMode = false
	return path
}

// startBackend serves a simulated pool and returns it with its base URL.
func startBackend(t *testing.T, opts backend.PoolOptions) (*backend.Pool, string) {
	t.Helper()
	pool := backend.NewPool(opts)
	ts := httptest.NewServer(backend.New(pool, backend.Options{}).Handler())
	t.Cleanup(ts.Close)
	return pool, ts.URL
}
