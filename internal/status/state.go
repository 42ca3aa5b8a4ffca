package status

import (
	"sync/atomic"
	"time"
)

// State is what the dashboard renders. Values are immutable once published;
// every change produces a new State.
type State struct {
	// Snapshot is the most recent successfully fetched server list.
	Snapshot Snapshot
	// LastUpdated is when Snapshot was accepted. Before the first success it
	// holds the time the engine was created.
	LastUpdated time.Time
	// ErrorMessage is empty unless the most recent completion failed.
	ErrorMessage string
}

// HasError reports whether the most recent completion failed.
func (s State) HasError() bool {
	return s.ErrorMessage != ""
}

// Stale reports whether the data on screen is older than maxAge.
func (s State) Stale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.LastUpdated) > maxAge
}

// Store holds the current State. Every write replaces the whole value, so a
// reader never observes a half-applied update.
type Store struct {
	cur atomic.Pointer[State]
}

// NewStore creates a store with an empty snapshot and LastUpdated = now.
func NewStore(now time.Time) *Store {
	s := &Store{}
	s.cur.Store(&State{Snapshot: Snapshot{}, LastUpdated: now})
	return s
}

// Load returns the current State.
func (s *Store) Load() State {
	return *s.cur.Load()
}

// ApplyFetch folds a fetch result into the state. On success the snapshot
// is replaced, LastUpdated set to now and the error cleared. On failure only
// the error message changes.
func (s *Store) ApplyFetch(snap Snapshot, err error, now time.Time) State {
	prev := s.cur.Load()
	var next State
	if err != nil {
		next = State{
			Snapshot:     prev.Snapshot,
			LastUpdated:  prev.LastUpdated,
			ErrorMessage: FetchFailedMessage,
		}
	} else {
		next = State{
			Snapshot:    snap.Clone(),
			LastUpdated: now,
		}
	}
	s.cur.Store(&next)
	return next
}

// ApplyMutationFailure records a failed add-server without touching the
// snapshot or LastUpdated.
func (s *Store) ApplyMutationFailure() State {
	prev := s.cur.Load()
	next := State{
		Snapshot:     prev.Snapshot,
		LastUpdated:  prev.LastUpdated,
		ErrorMessage: AddServerFailedMessage,
	}
	s.cur.Store(&next)
	return next
}
