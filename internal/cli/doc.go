// Package cli implements the lbdash command-line interface.
//
// Each cobra command delegates to a small function in this package that
// loads the config, builds the status client or engine, and hands off to
// the monitor, output or backend packages.
//
// # Command Structure
//
//	lbdash                 - Live dashboard (same as 'lbdash dashboard')
//	lbdash status          - Print the server list once (-o table|json|yaml|toml)
//	lbdash add-server      - Ask the load balancer for another server
//	lbdash backend         - Serve a simulated status API
//	lbdash init            - Create .lbdash.yaml
//	lbdash config          - Show the resolved config
//	lbdash version         - Build information
//
// # Machine Mode
//
// The global --json flag wraps command output and errors in a JSONEnvelope
// so scripts can rely on a stable shape and error codes.
package cli
