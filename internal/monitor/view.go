package monitor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/lbdash/internal/status"
	"github.com/rileyhilliard/lbdash/internal/ui"
)

// Column widths of the server list
const (
	colMarker   = 2
	colGlyph    = 2
	colID       = 12
	colAddress  = 18
	colHealth   = 10
	colRequests = 13
	colConns    = 7
	colTrend    = 14
)

// Width breakpoints for optional columns
const (
	BreakpointWideBars = 120
	BreakpointTrend    = 140
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	switch {
	case m.viewportReady:
		b.WriteString(m.viewport.View())
	case m.viewMode == ViewDetail:
		b.WriteString(m.renderDetailView())
	default:
		b.WriteString(m.renderServerList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar with summary stats.
func (m Model) renderHeader() string {
	updated := "never"
	if !m.state.LastUpdated.IsZero() {
		updated = ui.FormatClock(m.state.LastUpdated)
	}

	parts := []string{
		m.endpoint,
		fmt.Sprintf("%d servers", len(m.state.Snapshot)),
		fmt.Sprintf("%d healthy", m.HealthyCount()),
	}
	if m.endpoint == "" {
		parts = parts[1:]
	}

	title := TitleStyle.Render("lbdash")
	stats := LabelStyle.Render(" | " + strings.Join(parts, " | "))
	if m.dataStale() {
		stats += ui.WarningStyle().Render(" | Last updated: " + updated)
	} else {
		stats += LabelStyle.Render(" | Last updated: " + updated)
	}

	activity := ""
	switch {
	case m.adding:
		activity = " " + m.spinner.View() + LabelStyle.Render(" adding server")
	case m.Refreshing():
		activity = " " + m.spinner.View() + LabelStyle.Render(" refreshing")
	}

	return HeaderStyle.Render(title + stats + activity)
}

// staleAfterIntervals is how many missed refresh intervals mark the data
// on screen as stale.
const staleAfterIntervals = 2

// dataStale reports whether the last successful fetch is older than
// staleAfterIntervals refresh intervals.
func (m Model) dataStale() bool {
	iv := m.source.Interval()
	if iv <= 0 || m.state.LastUpdated.IsZero() {
		return false
	}
	return m.state.Stale(m.clock, staleAfterIntervals*iv)
}

// bannerHeight is the number of lines the banner occupies.
func (m Model) bannerHeight() int {
	if m.renderBanner() == "" {
		return 0
	}
	return 1
}

// renderBanner shows the last error above the (possibly stale) table, or
// the outcome of the last add-server request.
func (m Model) renderBanner() string {
	if m.state.HasError() {
		msg := ui.SymbolFail + " " + m.state.ErrorMessage
		if !m.state.LastUpdated.IsZero() {
			msg += " Showing data from " + ui.FormatAge(m.clock, m.state.LastUpdated) + "."
		}
		return ErrorBannerStyle.Render(msg)
	}
	if m.notice != "" {
		return ui.SuccessStyle().Render(ui.SymbolSuccess) + FooterStyle.Render(" "+m.notice)
	}
	return ""
}

// renderServerList renders the column header and one line per server.
func (m Model) renderServerList() string {
	if len(m.rows) == 0 {
		return LabelStyle.Render(ui.NoServersMessage)
	}

	barWidth := m.barWidth()
	// bar, space, and up to "100.00%"
	loadWidth := barWidth + 9

	header := strings.Repeat(" ", colMarker+colGlyph) +
		ui.PadRight("ID", colID) +
		ui.PadRight("ADDRESS", colAddress) +
		ui.PadRight("HEALTH", colHealth) +
		ui.PadRight("REQUESTS", colRequests) +
		ui.PadRight("CONNS", colConns) +
		ui.PadRight("CPU", loadWidth) +
		ui.PadRight("MEM", loadWidth)
	if m.showTrend() {
		header += "CPU TREND"
	}

	lines := make([]string, 0, len(m.rows)+1)
	lines = append(lines, ColumnHeaderStyle.Render(strings.TrimRight(header, " ")))
	for i, r := range m.rows {
		lines = append(lines, m.renderServerRow(r, i == m.selected, barWidth, loadWidth))
	}
	return strings.Join(lines, "\n")
}

// renderServerRow renders a single server line, tinted by health.
func (m Model) renderServerRow(r status.ServerRecord, selected bool, barWidth, loadWidth int) string {
	c := status.Classify(r)
	tint := HealthStyle(c.Health)

	marker := strings.Repeat(" ", colMarker)
	if selected {
		marker = ui.PadRight(SelectedMarkerStyle.Render(SelectedMarker), colMarker)
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(ui.PadRight(tint.Render(ui.HealthGlyph(r.Healthy)), colGlyph))
	b.WriteString(ui.PadRight(tint.Render(truncate(string(r.ID), colID-1)), colID))
	b.WriteString(ui.PadRight(ValueStyle.Render(truncate(r.Address(), colAddress-1)), colAddress))
	b.WriteString(ui.PadRight(tint.Render(c.Health.String()), colHealth))
	b.WriteString(ui.PadRight(ValueStyle.Render(ui.FormatCount(r.Requests)), colRequests))
	b.WriteString(ui.PadRight(ValueStyle.Render(strconv.FormatInt(r.ActiveConnections, 10)), colConns))
	b.WriteString(ui.PadRight(ui.RenderBar(r.CPUUsage, ui.LoadBarConfig(barWidth)), loadWidth))

	mem := ui.RenderBar(r.MemUsage, ui.LoadBarConfig(barWidth))
	if m.showTrend() {
		b.WriteString(ui.PadRight(mem, loadWidth))
		b.WriteString(ui.RenderSparkline(m.history.CPU(r.ID, colTrend), colTrend))
	} else {
		b.WriteString(mem)
	}

	return b.String()
}

// barWidth narrows the load bars on small terminals.
func (m Model) barWidth() int {
	if m.width == 0 || m.width >= BreakpointWideBars {
		return 10
	}
	return 5
}

func (m Model) showTrend() bool {
	return m.width >= BreakpointTrend
}

// renderFooter renders the keyboard hints.
func (m Model) renderFooter() string {
	var hints []string
	if m.viewMode == ViewDetail {
		hints = []string{
			"esc back",
			"r refresh",
			"a add server",
			"q quit",
		}
	} else {
		hints = []string{
			"q quit",
			"r refresh",
			"a add server",
			"s sort: " + m.sortOrder.String(),
			"↑↓ select",
			"enter details",
			"? help",
		}
	}
	if iv := m.source.Interval(); iv > 0 {
		hints = append(hints, "every "+iv.String())
	}

	return FooterStyle.Render(strings.Join(hints, " | "))
}

// truncate shortens s to maxLen runes, marking the cut with an ellipsis.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
