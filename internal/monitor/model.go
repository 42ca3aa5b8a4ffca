package monitor

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/lbdash/internal/status"
	"github.com/rileyhilliard/lbdash/internal/ui"
)

// Source is the refresh engine as seen by the dashboard.
type Source interface {
	State() status.State
	RefreshNow()
	AddServer(ctx context.Context) error
	InFlight() int
	Interval() time.Duration
}

// Options configures a dashboard Model.
type Options struct {
	// Endpoint is shown in the header.
	Endpoint string
	// Updates delivers every State the engine applies. A nil channel means
	// the dashboard only reflects the State it was created with.
	Updates <-chan status.State
	// AddTimeout bounds a single add-server request. Zero means no limit.
	AddTimeout time.Duration
	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// Layout sizes reserved around the scrollable body.
const (
	headerHeight = 2
	footerHeight = 2
)

// clockInterval drives the age text of the stale-data banner.
const clockInterval = time.Second

// Model is the Bubble Tea model for the status dashboard.
type Model struct {
	source     Source
	updates    <-chan status.State
	endpoint   string
	addTimeout time.Duration
	now        func() time.Time

	state   status.State
	rows    []status.ServerRecord
	history *History
	clock   time.Time

	selected  int
	sortOrder SortOrder
	viewMode  ViewMode
	showHelp  bool
	quitting  bool

	// Add-server request state
	adding bool
	notice string

	spinner spinner.Model

	width         int
	height        int
	viewport      viewport.Model
	viewportReady bool
}

// stateMsg carries a State published by the engine.
type stateMsg status.State

// updatesClosedMsg signals that the engine stopped publishing.
type updatesClosedMsg struct{}

// clockTickMsg refreshes time-relative text.
type clockTickMsg time.Time

// addServerResultMsg reports the outcome of an add-server request.
type addServerResultMsg struct {
	err error
}

// NewModel creates a dashboard model over source.
func NewModel(source Source, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		source:     source,
		updates:    opts.Updates,
		endpoint:   opts.Endpoint,
		addTimeout: opts.AddTimeout,
		now:        now,
		history:    NewHistory(DefaultHistorySize),
		clock:      now(),
		sortOrder:  SortBySource,
		spinner:    ui.NewBubblesSpinner(),
	}
	m.applyState(source.State())
	return m
}

// Init starts listening for state updates, the clock and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForState(),
		m.clockTickCmd(),
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		if m.viewportReady {
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.refreshViewport()

	case stateMsg:
		m.applyState(status.State(msg))
		m.clock = m.now()
		m.resizeViewport()
		m.refreshViewport()
		return m, m.waitForState()

	case updatesClosedMsg:
		m.updates = nil

	case clockTickMsg:
		m.clock = time.Time(msg)
		return m, m.clockTickCmd()

	case addServerResultMsg:
		m.adding = false
		if msg.err == nil {
			m.notice = "Server added"
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// applyState stores s and derives rows and history from it. History only
// grows when the fetch timestamp moves, so failures add no samples.
func (m *Model) applyState(s status.State) {
	if !s.LastUpdated.IsZero() && !s.LastUpdated.Equal(m.state.LastUpdated) {
		m.history.Record(s.Snapshot)
		m.notice = ""
	}

	prev, hadSelection := m.SelectedServer()
	m.state = s
	m.rows = s.Snapshot.Clone()
	m.orderRows()
	if hadSelection {
		m.selectID(prev.ID)
	}
	m.clampSelection()
}

// sortRows re-orders rows for the active sort order, keeping the selection
// on the same server.
func (m *Model) sortRows() {
	prev, hadSelection := m.SelectedServer()
	m.orderRows()
	if hadSelection {
		m.selectID(prev.ID)
	}
	m.clampSelection()
}

func (m *Model) orderRows() {
	switch m.sortOrder {
	case SortByCPU:
		sort.SliceStable(m.rows, func(i, j int) bool {
			return m.rows[i].CPUUsage > m.rows[j].CPUUsage
		})
	case SortByMemory:
		sort.SliceStable(m.rows, func(i, j int) bool {
			return m.rows[i].MemUsage > m.rows[j].MemUsage
		})
	case SortByID:
		sort.SliceStable(m.rows, func(i, j int) bool {
			return m.rows[i].ID.Less(m.rows[j].ID)
		})
	default:
		m.rows = m.state.Snapshot.Clone()
	}
}

func (m *Model) selectID(id status.ServerID) {
	for i, r := range m.rows {
		if r.ID == id {
			m.selected = i
			return
		}
	}
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.rows) {
		m.selected = len(m.rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if len(m.rows) == 0 && m.viewMode == ViewDetail {
		m.viewMode = ViewList
	}
}

// waitForState blocks on the update channel for the next State.
func (m Model) waitForState() tea.Cmd {
	ch := m.updates
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return stateMsg(s)
	}
}

func (m Model) clockTickCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// refreshCmd asks the engine for an immediate fetch. The result arrives
// through the update channel.
func (m Model) refreshCmd() tea.Cmd {
	src := m.source
	return func() tea.Msg {
		src.RefreshNow()
		return nil
	}
}

func (m Model) addServerCmd() tea.Cmd {
	src := m.source
	timeout := m.addTimeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return addServerResultMsg{err: src.AddServer(ctx)}
	}
}

// resizeViewport fits the viewport between header, banner and footer.
func (m *Model) resizeViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}

	height := m.height - headerHeight - footerHeight - m.bannerHeight()
	if height < 1 {
		height = 1
	}

	if !m.viewportReady {
		m.viewport = viewport.New(m.width, height)
		m.viewport.YPosition = headerHeight
		m.viewportReady = true
		return
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
}

// refreshViewport re-renders the body and keeps the selected row visible.
func (m *Model) refreshViewport() {
	if !m.viewportReady {
		return
	}

	if m.viewMode == ViewDetail {
		m.viewport.SetContent(m.renderDetailView())
		return
	}

	m.viewport.SetContent(m.renderServerList())

	// Line 0 is the column header.
	line := m.selected + 1
	switch {
	case line < m.viewport.YOffset:
		if m.selected == 0 {
			line = 0
		}
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// Refreshing reports whether a fetch or add-server request is outstanding.
func (m Model) Refreshing() bool {
	return m.adding || m.source.InFlight() > 0
}

// HealthyCount returns the number of healthy servers in the current snapshot.
func (m Model) HealthyCount() int {
	return m.state.Snapshot.HealthyCount()
}

// SelectedServer returns the selected server, if any.
func (m Model) SelectedServer() (status.ServerRecord, bool) {
	if m.selected >= 0 && m.selected < len(m.rows) {
		return m.rows[m.selected], true
	}
	return status.ServerRecord{}, false
}
