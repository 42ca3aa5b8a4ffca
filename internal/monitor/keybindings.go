package monitor

import tea "github.com/charmbracelet/bubbletea"

// SortOrder defines how servers are ordered in the list.
type SortOrder int

const (
	// SortBySource keeps the order the load balancer reported.
	SortBySource SortOrder = iota
	SortByCPU
	SortByMemory
	SortByID
)

// String returns the display name of the sort order.
func (s SortOrder) String() string {
	switch s {
	case SortByCPU:
		return "CPU"
	case SortByMemory:
		return "memory"
	case SortByID:
		return "ID"
	default:
		return "source"
	}
}

// Next returns the next sort order in the cycle.
func (s SortOrder) Next() SortOrder {
	return (s + 1) % 4
}

// ViewMode represents the current dashboard view.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// Key bindings
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRefresh     = "r"
	KeyAddServer   = "a"
	KeyCycleSort   = "s"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
	KeySelectFirst = "home"
	KeySelectLast  = "end"
	KeyExpand      = "enter"
	KeyCollapse    = "esc"
	KeyToggleHelp  = "?"
)

// HandleKeyMsg processes keyboard input and updates model state.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		return true, m.refreshCmd()

	case KeyAddServer:
		if m.adding {
			return true, nil
		}
		m.adding = true
		m.notice = ""
		return true, m.addServerCmd()

	case KeyCycleSort:
		m.sortOrder = m.sortOrder.Next()
		m.sortRows()
		m.refreshViewport()
		return true, nil

	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
			m.refreshViewport()
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if m.selected < len(m.rows)-1 {
			m.selected++
			m.refreshViewport()
		}
		return true, nil

	case KeySelectFirst:
		m.selected = 0
		m.refreshViewport()
		return true, nil

	case KeySelectLast:
		if len(m.rows) > 0 {
			m.selected = len(m.rows) - 1
			m.refreshViewport()
		}
		return true, nil

	case KeyExpand:
		if m.viewMode == ViewList && len(m.rows) > 0 {
			m.viewMode = ViewDetail
			m.refreshViewport()
		}
		return true, nil

	case KeyCollapse:
		if m.viewMode == ViewDetail {
			m.viewMode = ViewList
			m.refreshViewport()
		}
		return true, nil
	}

	return false, nil
}
