package monitor

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/lbdash/internal/status"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for health and load
	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")

	ColorGraph = lipgloss.Color("#00FFFF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	ColumnHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Bold(true)

	// ErrorBannerStyle frames the last error while stale data stays on screen.
	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(ColorCritical).
				Bold(true).
				Padding(0, 1)

	SelectedMarkerStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	TrendStyle = lipgloss.NewStyle().
			Foreground(ColorGraph)
)

// SelectedMarker prefixes the selected row.
const SelectedMarker = "▸"

// HealthColor returns the row tint for a health category.
func HealthColor(h status.Health) lipgloss.Color {
	switch h {
	case status.HealthUnhealthy:
		return ColorCritical
	case status.HealthWarning:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// HealthStyle returns the foreground style used to tint a row.
func HealthStyle(h status.Health) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(HealthColor(h))
}

// MetricColor returns the color for a CPU or memory percentage.
func MetricColor(percent float64) lipgloss.Color {
	switch status.LoadBand(percent) {
	case status.BandCritical:
		return ColorCritical
	case status.BandElevated:
		return ColorWarning
	default:
		return ColorHealthy
	}
}
