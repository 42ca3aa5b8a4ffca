package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/lbdash/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	m := newTestModel(&fakeSource{state: loadedState()})

	require.Len(t, m.rows, 3)
	assert.EqualValues(t, "server-1", m.rows[0].ID, "source order by default")
	assert.Equal(t, SortBySource, m.sortOrder)
	assert.Equal(t, 0, m.selected)
	assert.Equal(t, 2, m.HealthyCount())
	assert.Equal(t, 1, m.history.Count("server-1"), "initial snapshot is sampled")
}

func TestNewModel_Empty(t *testing.T) {
	m := newTestModel(&fakeSource{})

	assert.Empty(t, m.rows)
	_, ok := m.SelectedServer()
	assert.False(t, ok)
	assert.Equal(t, 0, m.history.Len())
}

func TestModel_StateMsg(t *testing.T) {
	updates := make(chan status.State, 1)
	m := NewModel(&fakeSource{}, Options{Updates: updates, Now: func() time.Time { return t0 }})

	m, cmd := update(t, m, stateMsg(loadedState()))

	assert.Len(t, m.rows, 3)
	require.NotNil(t, cmd, "keeps listening for updates")

	next := loadedState()
	next.Snapshot = next.Snapshot[:1]
	next.LastUpdated = t0.Add(10 * time.Second)
	updates <- next

	msg := cmd()
	require.IsType(t, stateMsg{}, msg)
	m, _ = update(t, m, msg)
	assert.Len(t, m.rows, 1)
}

func TestModel_FailedRefreshKeepsRowsAndHistory(t *testing.T) {
	m := newTestModel(&fakeSource{state: loadedState()})
	require.Equal(t, 1, m.history.Count("server-1"))

	failed := loadedState()
	failed.ErrorMessage = status.FetchFailedMessage
	m, _ = update(t, m, stateMsg(failed))

	assert.Len(t, m.rows, 3)
	assert.True(t, m.state.HasError())
	assert.Equal(t, 1, m.history.Count("server-1"), "no sample for an unchanged timestamp")

	recovered := loadedState()
	recovered.LastUpdated = t0.Add(10 * time.Second)
	m, _ = update(t, m, stateMsg(recovered))

	assert.False(t, m.state.HasError())
	assert.Equal(t, 2, m.history.Count("server-1"))
}

func TestModel_SelectionFollowsServer(t *testing.T) {
	m := newTestModel(&fakeSource{state: loadedState()})
	m.HandleKeyMsg(key("end"))

	// server-3 moves to the front.
	snap := sampleSnapshot()
	reordered := status.Snapshot{snap[2], snap[0], snap[1]}
	m, _ = update(t, m, stateMsg(status.State{Snapshot: reordered, LastUpdated: t0.Add(time.Second)}))

	sel, ok := m.SelectedServer()
	require.True(t, ok)
	assert.EqualValues(t, "server-3", sel.ID)
	assert.Equal(t, 0, m.selected)
}

func TestModel_SelectionClampsWhenServerRemoved(t *testing.T) {
	m := newTestModel(&fakeSource{state: loadedState()})
	m.HandleKeyMsg(key("end"))
	m.HandleKeyMsg(key("enter"))

	m, _ = update(t, m, stateMsg(status.State{Snapshot: sampleSnapshot()[:1], LastUpdated: t0.Add(time.Second)}))
	assert.Equal(t, 0, m.selected)

	m, _ = update(t, m, stateMsg(status.State{Snapshot: status.Snapshot{}, LastUpdated: t0.Add(2 * time.Second)}))
	assert.Equal(t, 0, m.selected)
	assert.Equal(t, ViewList, m.viewMode, "detail view closes without servers")
}

func TestModel_UpdatesClosed(t *testing.T) {
	updates := make(chan status.State)
	m := NewModel(&fakeSource{}, Options{Updates: updates})
	close(updates)

	msg := m.waitForState()()
	require.IsType(t, updatesClosedMsg{}, msg)

	m, _ = update(t, m, msg)
	assert.Nil(t, m.waitForState())
}

func TestModel_WaitForStateWithoutChannel(t *testing.T) {
	m := newTestModel(&fakeSource{})
	assert.Nil(t, m.waitForState())
}

func TestModel_ClockTick(t *testing.T) {
	m := newTestModel(&fakeSource{state: loadedState()})
	later := t0.Add(5 * time.Second)

	m, cmd := update(t, m, clockTickMsg(later))

	assert.Equal(t, later, m.clock)
	assert.NotNil(t, cmd)
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(&fakeSource{state: loadedState()})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	require.True(t, m.viewportReady)
	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 30-headerHeight-footerHeight, m.viewport.Height)

	failed := loadedState()
	failed.ErrorMessage = status.FetchFailedMessage
	m, _ = update(t, m, stateMsg(failed))
	assert.Equal(t, 30-headerHeight-footerHeight-1, m.viewport.Height, "banner takes a line")
}

func TestModel_ViewportFollowsSelection(t *testing.T) {
	snap := make(status.Snapshot, 0, 20)
	for i := 0; i < 20; i++ {
		snap = append(snap, status.ServerRecord{ID: status.ServerID("s" + string(rune('a'+i))), Healthy: true})
	}
	m := newTestModel(&fakeSource{state: status.State{Snapshot: snap, LastUpdated: t0}})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 10})

	m.HandleKeyMsg(key("end"))

	// The last row (line 20, after the column header) must be visible.
	assert.Equal(t, 20-m.viewport.Height+1, m.viewport.YOffset)

	m.HandleKeyMsg(key("home"))
	assert.Equal(t, 0, m.viewport.YOffset, "column header comes back into view")
}

func TestModel_SortByIDIsNumericAware(t *testing.T) {
	snap := status.Snapshot{
		{ID: "server-10", Healthy: true},
		{ID: "server-2", Healthy: true},
		{ID: "server-1", Healthy: true},
	}
	m := newTestModel(&fakeSource{state: status.State{Snapshot: snap, LastUpdated: t0}})

	m.sortOrder = SortByID
	m.sortRows()

	ids := make([]status.ServerID, 0, len(m.rows))
	for _, r := range m.rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []status.ServerID{"server-1", "server-2", "server-10"}, ids)
}

func TestModel_Refreshing(t *testing.T) {
	src := &fakeSource{state: loadedState()}
	m := newTestModel(src)
	assert.False(t, m.Refreshing())

	src.mu.Lock()
	src.inFlight = 1
	src.mu.Unlock()
	assert.True(t, m.Refreshing())
}

func TestModel_Init(t *testing.T) {
	m := newTestModel(&fakeSource{state: loadedState()})
	assert.NotNil(t, m.Init())
}
