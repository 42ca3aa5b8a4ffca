package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/lbdash/internal/status"
)

// Progress bar block characters.
const (
	BarFilled = '█'
	BarEmpty  = '░'
)

// ProgressColorFunc returns a color for a percentage.
type ProgressColorFunc func(percent float64) lipgloss.Color

// LoadColor colors a load percentage by its band: normal green,
// elevated yellow, critical red.
func LoadColor(percent float64) lipgloss.Color {
	return BandColor(status.LoadBand(percent))
}

// BandColor maps a load band to its color.
func BandColor(b status.Band) lipgloss.Color {
	switch b {
	case status.BandCritical:
		return ColorError
	case status.BandElevated:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// HealthColor maps a health category to its color.
func HealthColor(h status.Health) lipgloss.Color {
	switch h {
	case status.HealthUnhealthy:
		return ColorError
	case status.HealthWarning:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// BarConfig configures progress bar rendering.
type BarConfig struct {
	Width       int               // Width of the bar in characters
	Brackets    bool              // Whether to wrap bar in [ ]
	ColorFunc   ProgressColorFunc // Function to determine bar color
	ShowPercent bool              // Whether to append the percentage with two decimals
}

// LoadBarConfig returns a config for CPU and memory bars.
func LoadBarConfig(width int) BarConfig {
	return BarConfig{
		Width:       width,
		Brackets:    false,
		ColorFunc:   LoadColor,
		ShowPercent: true,
	}
}

// BuildBarString builds the raw bar string (without styling) from filled/empty counts.
// If brackets is true, wraps in [ ].
func BuildBarString(filledCount, emptyCount int, brackets bool) string {
	var sb strings.Builder
	capacity := filledCount + emptyCount
	if brackets {
		capacity += 2
	}
	sb.Grow(capacity)

	if brackets {
		sb.WriteRune('[')
	}
	for i := 0; i < filledCount; i++ {
		sb.WriteRune(BarFilled)
	}
	for i := 0; i < emptyCount; i++ {
		sb.WriteRune(BarEmpty)
	}
	if brackets {
		sb.WriteRune(']')
	}

	return sb.String()
}

// CalculateBarCounts returns filled and empty cells for a fill in [0,1].
func CalculateBarCounts(fill float64, width int) (filled, empty int) {
	filled = int(fill*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty = width - filled
	return
}

// RenderBar renders a bar for a raw percentage. Out-of-range values draw a
// clamped bar but the printed number is the raw value.
func RenderBar(percent float64, config BarConfig) string {
	if config.Width <= 0 {
		return ""
	}

	filled, empty := CalculateBarCounts(status.Fill(percent), config.Width)
	bar := BuildBarString(filled, empty, config.Brackets)

	if config.ColorFunc != nil {
		bar = lipgloss.NewStyle().Foreground(config.ColorFunc(percent)).Render(bar)
	}

	if config.ShowPercent {
		bar += " " + FormatPercent(percent)
	}
	return bar
}

// FormatPercent formats a percentage with two decimals, e.g. "42.50%".
func FormatPercent(percent float64) string {
	return fmt.Sprintf("%.2f%%", percent)
}
