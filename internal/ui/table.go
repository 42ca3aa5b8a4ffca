package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/lbdash/internal/status"
)

// NoServersMessage is shown in place of an empty snapshot.
const NoServersMessage = "No servers available"

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// ServerColumns are the columns of the server table.
var ServerColumns = []TableColumn{
	{Title: "", Width: 2},
	{Title: "ID", Width: 12},
	{Title: "ADDRESS", Width: 18},
	{Title: "HEALTH", Width: 10},
	{Title: "REQUESTS", Width: 13},
	{Title: "CONNS", Width: 7},
	{Title: "CPU", Width: 8},
	{Title: "MEM", Width: 8},
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Nothing is focused, so the selected row looks like any other.
	s.Selected = s.Cell

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
// This is for CLI output (not TUI).
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// HealthGlyph returns ✓ for healthy servers and ✗ otherwise.
func HealthGlyph(healthy bool) string {
	if healthy {
		return SymbolSuccess
	}
	return SymbolFail
}

// ServerRow formats one server for the plain table. Cells carry no ANSI
// styling so column widths stay exact.
func ServerRow(r status.ServerRecord) []string {
	c := status.Classify(r)
	return []string{
		HealthGlyph(r.Healthy),
		string(r.ID),
		r.Address(),
		c.Health.String(),
		FormatCount(r.Requests),
		strconv.FormatInt(r.ActiveConnections, 10),
		FormatPercent(r.CPUUsage),
		FormatPercent(r.MemUsage),
	}
}

// RenderServerTable renders a snapshot for the status command.
func RenderServerTable(snap status.Snapshot) string {
	if len(snap) == 0 {
		return NoServersMessage
	}

	rows := make([][]string, len(snap))
	for i, r := range snap {
		rows[i] = ServerRow(r)
	}
	return RenderSimpleTable(ServerColumns, rows)
}

// PadRight pads a string to the specified visible width.
func PadRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	for i := 0; i < width-visibleLen; i++ {
		s += " "
	}
	return s
}
