// Package status is the polling engine behind the lbdash dashboard.
//
// It fetches snapshots of backend server metrics from a load balancer's
// status endpoint, keeps the latest accepted snapshot together with the time
// it arrived, and maps each server to display categories.
//
// # Key Components
//
//	Client     - One GET /api/status or POST /api/add_server per call
//	Scheduler  - Fires a trigger immediately on Start and then every interval
//	Store      - Holds the current State behind an atomic pointer
//	Engine     - Wires the above together; a single actor applies results
//	Classify   - Pure mapping from a ServerRecord to health and load bands
//
// # Message Flow
//
//  1. The Scheduler fires (tick, Start, or RefreshNow)
//  2. The Engine runs Client.Fetch in its own goroutine
//  3. The completion is handed to the actor goroutine
//  4. The actor applies it to the Store and notifies subscribers
//
// A failed fetch never clears the snapshot. It only records an error
// message, so the dashboard keeps showing the last good data marked stale.
// Results are applied in completion order; a slow response that finishes
// after a newer one overwrites it.
package status
