package monitor

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/lbdash/internal/status"
	"github.com/rileyhilliard/lbdash/internal/ui"
)

// Detail view styles
var (
	detailContainerStyle = lipgloss.NewStyle().
				Padding(0, 2)

	detailSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder).
				Padding(0, 1).
				MarginBottom(1)

	detailLabelStyle = LabelStyle.Width(14)
)

// renderDetailView renders the expanded view of the selected server.
func (m Model) renderDetailView() string {
	r, ok := m.SelectedServer()
	if !ok {
		return LabelStyle.Render("No server selected")
	}

	c := status.Classify(r)

	contentWidth := m.width - 6
	if contentWidth < 60 {
		contentWidth = 60
	}

	var b strings.Builder
	b.WriteString(m.renderDetailHeader(r, c))
	b.WriteString("\n\n")

	b.WriteString(detailSectionStyle.Width(contentWidth).Render(strings.Join([]string{
		detailField("Address", r.Address()),
		detailField("Health", HealthStyle(c.Health).Render(c.Health.String())),
		detailField("Requests", ui.FormatCount(r.Requests)),
		detailField("Connections", strconv.FormatInt(r.ActiveConnections, 10)),
	}, "\n")))
	b.WriteString("\n")

	graphWidth := contentWidth - 4
	b.WriteString(m.renderDetailLoadSection("CPU", r.CPUUsage, c.CPUBand, m.history.CPU(r.ID, graphWidth), contentWidth))
	b.WriteString("\n")
	b.WriteString(m.renderDetailLoadSection("Memory", r.MemUsage, c.MemBand, m.history.Mem(r.ID, graphWidth), contentWidth))

	return detailContainerStyle.Render(b.String())
}

func (m Model) renderDetailHeader(r status.ServerRecord, c status.Classification) string {
	glyph := HealthStyle(c.Health).Render(ui.HealthGlyph(r.Healthy))
	name := TitleStyle.Render(string(r.ID))
	samples := LabelStyle.Render(" | " + strconv.Itoa(m.history.Count(r.ID)) + " samples")
	return glyph + " " + name + samples
}

// renderDetailLoadSection renders a bar, its band and a trend line.
func (m Model) renderDetailLoadSection(label string, percent float64, band status.Band, trend []float64, width int) string {
	bar := ui.RenderBar(percent, ui.LoadBarConfig(20))
	bandText := lipgloss.NewStyle().Foreground(MetricColor(percent)).Render(band.String())

	lines := []string{
		detailField(label, bar+"  "+bandText),
	}
	if len(trend) > 0 {
		lines = append(lines, TrendStyle.Render(ui.RenderSparkline(trend, width-4)))
	} else {
		lines = append(lines, LabelStyle.Render("Waiting for samples..."))
	}

	return detailSectionStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func detailField(label, value string) string {
	return detailLabelStyle.Render(label) + value
}
