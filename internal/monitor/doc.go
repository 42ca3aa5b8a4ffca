// Package monitor implements the terminal dashboard for load balancer status.
//
// The dashboard renders the latest status.State published by the refresh
// engine: one row per backend server with its health glyph, request count,
// active connections and CPU/memory load bars, plus a header with the
// endpoint, healthy count and the time of the last successful fetch.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds the last State, derived row order, selection and layout
//   - Update: Processes keystrokes, state notifications and clock ticks
//   - View: Renders the current model to a string for display
//
// # Message Flow
//
// The model never polls. The engine pushes every applied State through a
// subscription channel:
//
//  1. waitForState blocks on the channel and returns a stateMsg
//  2. Update stores the State, records history and re-sorts rows
//  3. waitForState is issued again for the next notification
//
// A one second clockTickMsg keeps the "ago" text of the stale-data banner
// current between notifications.
//
// # History and Sparklines
//
// The History type keeps CPU and memory samples per server in ring buffers.
// A sample is recorded only when a fetch succeeds, so a failed refresh never
// duplicates the previous point. Servers that leave the snapshot are pruned.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh now
//	a           - Add a server
//	s           - Cycle sort order (source/CPU/memory/ID)
//	j/k, ↑/↓    - Navigate server list
//	Enter       - Expand server detail view
//	Esc         - Collapse / go back
//	?           - Toggle help overlay
package monitor
