package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/vitalscope/internal/session"
	"github.com/rileyhilliard/vitalscope/internal/vitals"
)

// sparklineWidth is how many characters each metric sparkline gets.
const sparklineWidth = 24

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString(ErrorBannerStyle.Render("✗ " + m.banner))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderVitalCards())
	b.WriteString("\n")

	b.WriteString(m.renderTicker())
	b.WriteString("\n")

	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the session header with patient, elapsed time, and
// monitoring status.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("vitalscope")

	patient := m.patient.Name
	if m.patient.Room != "" {
		patient += " (" + m.patient.Room + ")"
	}

	sessionLabel := m.sessionID
	if len(sessionLabel) > 8 {
		sessionLabel = sessionLabel[:8]
	}
	if m.offline {
		sessionLabel += " offline"
	}

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %s | session %s | %s | ", patient, sessionLabel, m.elapsed()))

	return HeaderStyle.Render(title + stats + m.renderMonitoringBadge())
}

// renderMonitoringBadge shows the monitoring state and its provenance.
func (m Model) renderMonitoringBadge() string {
	active, origin, _ := m.state.Snapshot()
	if !active {
		return LabelStyle.Render(StatusInactive + " idle")
	}

	switch origin {
	case session.StartedByDevice:
		return BadgeDeviceStyle.Render(StatusActive + " monitoring · auto-started by device")
	default:
		return BadgeOperatorStyle.Render(StatusActive + " monitoring")
	}
}

// renderVitalCards renders one card per metric: latest value, session
// average, and a sparkline.
func (m Model) renderVitalCards() string {
	var cards []string
	for _, metric := range vitals.Metrics {
		cards = append(cards, m.renderVitalCard(metric))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) renderVitalCard(metric vitals.Metric) string {
	var lines []string

	lines = append(lines, LabelStyle.Render(metric.String()))

	if m.haveVitals {
		v := m.last.Value(metric)
		value := StatusStyle(metric, v).Bold(true).Render(formatValue(metric, v))
		if unit := metric.Unit(); unit != "" {
			value += " " + LabelStyle.Render(unit)
		}
		lines = append(lines, value)
	} else {
		lines = append(lines, LabelStyle.Render("--"))
	}

	if avg, ok := m.buffer.Average(metric); ok {
		lines = append(lines, TickerStyle.Render("avg "+formatValue(metric, avg)))
	} else {
		lines = append(lines, "")
	}

	series := m.buffer.Series(metric, m.seriesLen)
	lines = append(lines, RenderMetricSparkline(metric, series, sparklineWidth))

	return CardStyle.Render(strings.Join(lines, "\n"))
}

// renderTicker renders the most recent readings, newest last.
func (m Model) renderTicker() string {
	tail := m.buffer.Tail(m.tailLen)
	if len(tail) == 0 {
		if m.streamDone {
			return LabelStyle.Render("stream ended")
		}
		return m.spinner.View() + LabelStyle.Render("waiting for readings...")
	}

	var b strings.Builder
	for i, r := range tail {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(TickerStyle.Render(formatReadingLine(r)))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	return FooterStyle.Render("s start · x stop · r reset · q quit")
}

// elapsed formats the time since monitoring started, or since the
// dashboard opened when monitoring is off.
func (m Model) elapsed() string {
	active, _, startedAt := m.state.Snapshot()
	since := m.openedAt
	if active && !startedAt.IsZero() {
		since = startedAt
	}

	d := time.Since(since).Round(time.Second)
	h := d / time.Hour
	mm := (d % time.Hour) / time.Minute
	ss := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, mm, ss)
}

// formatValue formats one metric value the way clinicians expect it:
// whole numbers except temperature, which keeps one decimal.
func formatValue(m vitals.Metric, v float64) string {
	if m == vitals.MetricTemperature {
		return fmt.Sprintf("%.1f", v)
	}
	return fmt.Sprintf("%.0f", v)
}

// formatReadingLine renders one ticker row.
func formatReadingLine(r vitals.Reading) string {
	return fmt.Sprintf("%s  HR %3.0f  SpO₂ %3.0f%%  %.1f°C  BP %.0f/%.0f",
		r.Timestamp.Format("15:04:05"),
		r.Pulse, r.OxygenSaturation, r.TemperatureC, r.Systolic, r.Diastolic)
}
