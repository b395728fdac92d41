package monitor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/vitalscope/internal/vitals"
)

// Dashboard color palette.
const (
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for vital status
	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	// Accent colors
	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")

	// Graph color
	ColorGraph = lipgloss.Color("#00FFFF")
)

// Base styles for the dashboard.
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	BadgeDeviceStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	BadgeOperatorStyle = lipgloss.NewStyle().
				Foreground(ColorHealthy)

	TickerStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorCritical).
				Bold(true).
				Padding(0, 1)
)

// Status indicator characters.
const (
	StatusActive   = "◉"
	StatusInactive = "◌"
)

// VitalStatus grades a value against clinical alert bands.
type VitalStatus int

const (
	StatusNormal VitalStatus = iota
	StatusWarning
	StatusCritical
)

// alertBand holds the warning and critical limits for one metric. A value
// outside [WarnLow, WarnHigh] is a warning; outside [CritLow, CritHigh]
// it is critical.
type alertBand struct {
	CritLow, WarnLow, WarnHigh, CritHigh float64
}

// alertBands are conventional adult alert limits, used only for display
// coloring. They are deliberately wider than textbook normals to keep the
// dashboard calm.
var alertBands = map[vitals.Metric]alertBand{
	vitals.MetricPulse:            {40, 50, 120, 150},
	vitals.MetricOxygenSaturation: {85, 92, 100, 100},
	vitals.MetricTemperature:      {34, 35.5, 38, 39.5},
	vitals.MetricSystolic:         {80, 90, 150, 180},
	vitals.MetricDiastolic:        {50, 60, 95, 120},
}

// StatusFor grades one metric value.
func StatusFor(m vitals.Metric, v float64) VitalStatus {
	band, ok := alertBands[m]
	if !ok {
		return StatusNormal
	}
	if v < band.CritLow || v > band.CritHigh {
		return StatusCritical
	}
	if v < band.WarnLow || v > band.WarnHigh {
		return StatusWarning
	}
	return StatusNormal
}

// StatusColor returns the display color for one metric value.
func StatusColor(m vitals.Metric, v float64) lipgloss.Color {
	switch StatusFor(m, v) {
	case StatusCritical:
		return ColorCritical
	case StatusWarning:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// StatusStyle returns a lipgloss style colored for one metric value.
func StatusStyle(m vitals.Metric, v float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StatusColor(m, v))
}
