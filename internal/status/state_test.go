package status

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func sampleSnapshot(ids ...string) Snapshot {
	snap := make(Snapshot, 0, len(ids))
	for i, id := range ids {
		snap = append(snap, ServerRecord{
			ID:       ServerID(id),
			Host:     "localhost",
			Port:     9001 + i,
			Healthy:  true,
			CPUUsage: 20,
			MemUsage: 30,
		})
	}
	return snap
}

func TestStore_Initial(t *testing.T) {
	s := NewStore(t0)
	st := s.Load()

	assert.NotNil(t, st.Snapshot)
	assert.Empty(t, st.Snapshot)
	assert.Equal(t, t0, st.LastUpdated)
	assert.False(t, st.HasError())
}

func TestStore_FailureKeepsSnapshot(t *testing.T) {
	s := NewStore(t0)
	good := sampleSnapshot("a", "b")
	s.ApplyFetch(good, nil, t0.Add(time.Second))

	st := s.ApplyFetch(nil, errors.New("connection refused"), t0.Add(2*time.Second))

	assert.Equal(t, good, st.Snapshot)
	assert.Equal(t, t0.Add(time.Second), st.LastUpdated)
	assert.Equal(t, FetchFailedMessage, st.ErrorMessage)
	assert.Equal(t, st, s.Load())
}

func TestStore_SuccessClearsError(t *testing.T) {
	s := NewStore(t0)
	s.ApplyFetch(nil, errors.New("boom"), t0.Add(time.Second))
	require.True(t, s.Load().HasError())

	next := sampleSnapshot("c")
	st := s.ApplyFetch(next, nil, t0.Add(2*time.Second))

	assert.False(t, st.HasError())
	assert.Equal(t, next, st.Snapshot)
	assert.Equal(t, t0.Add(2*time.Second), st.LastUpdated)
}

func TestStore_SnapshotIsCopied(t *testing.T) {
	s := NewStore(t0)
	snap := sampleSnapshot("a")
	s.ApplyFetch(snap, nil, t0)

	snap[0].Host = "mutated"

	assert.Equal(t, "localhost", s.Load().Snapshot[0].Host)
}

func TestStore_MutationFailure(t *testing.T) {
	s := NewStore(t0)
	good := sampleSnapshot("a")
	s.ApplyFetch(good, nil, t0.Add(time.Second))

	st := s.ApplyMutationFailure()

	assert.Equal(t, AddServerFailedMessage, st.ErrorMessage)
	assert.Equal(t, good, st.Snapshot)
	assert.Equal(t, t0.Add(time.Second), st.LastUpdated)
}

func TestState_Stale(t *testing.T) {
	st := State{LastUpdated: t0}

	assert.False(t, st.Stale(t0.Add(5*time.Second), 10*time.Second))
	assert.True(t, st.Stale(t0.Add(11*time.Second), 10*time.Second))
}

func TestSnapshot_HealthyCount(t *testing.T) {
	snap := sampleSnapshot("a", "b", "c")
	snap[1].Healthy = false

	assert.Equal(t, 2, snap.HealthyCount())
	assert.Equal(t, 0, Snapshot(nil).HealthyCount())
}

func TestServerRecord_Address(t *testing.T) {
	r := ServerRecord{Host: "localhost", Port: 9001}
	assert.Equal(t, "localhost:9001", r.Address())
}
