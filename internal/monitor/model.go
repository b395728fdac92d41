package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/vitalscope/internal/device"
	"github.com/rileyhilliard/vitalscope/internal/gateway"
	"github.com/rileyhilliard/vitalscope/internal/session"
	"github.com/rileyhilliard/vitalscope/internal/vitals"
)

// tickMsg drives the once-a-second header clock.
type tickMsg time.Time

// readingMsg carries one accepted reading from the ingestion loop.
type readingMsg session.Event

// streamDoneMsg reports that the ingestion loop finished. err is non-nil
// when the device stream failed.
type streamDoneMsg struct {
	err error
}

// Model is the Bubble Tea model for the vitals dashboard.
type Model struct {
	link   device.Link
	buffer *session.Buffer
	state  *session.State
	events <-chan session.Event
	// runDone yields the ingestion loop's result once events closes.
	runDone <-chan error

	patient   gateway.Patient
	sessionID string
	offline   bool

	seriesLen int
	tailLen   int

	width  int
	height int

	last       vitals.Reading
	haveVitals bool
	banner     string
	streamDone bool
	quitting   bool
	openedAt   time.Time

	// spinner animates the waiting state before the first reading.
	spinner spinner.Model
}

// ModelConfig wires a dashboard Model.
type ModelConfig struct {
	Link      device.Link
	Buffer    *session.Buffer
	State     *session.State
	Events    <-chan session.Event
	RunDone   <-chan error
	Patient   gateway.Patient
	SessionID string
	Offline   bool
	SeriesLen int
	TailLen   int
}

// NewModel creates the dashboard model.
func NewModel(cfg ModelConfig) Model {
	seriesLen := cfg.SeriesLen
	if seriesLen <= 0 {
		seriesLen = session.DefaultSeriesLen
	}
	tailLen := cfg.TailLen
	if tailLen <= 0 {
		tailLen = session.DefaultTailLen
	}

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorAccent)),
	)

	return Model{
		spinner:   sp,
		link:      cfg.Link,
		buffer:    cfg.Buffer,
		state:     cfg.State,
		events:    cfg.Events,
		runDone:   cfg.RunDone,
		patient:   cfg.Patient,
		sessionID: cfg.SessionID,
		offline:   cfg.Offline,
		seriesLen: seriesLen,
		tailLen:   tailLen,
		openedAt:  time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.pollReadingCmd(),
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

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, m.tickCmd()

	case readingMsg:
		m.last = msg.Reading
		m.haveVitals = true
		return m, m.pollReadingCmd()

	case streamDoneMsg:
		m.streamDone = true
		if msg.err != nil {
			m.banner = msg.err.Error()
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
	return m.renderDashboard()
}

// tickCmd returns a command that ticks once a second for the elapsed clock.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// pollReadingCmd waits for the next accepted reading. When the event
// channel closes it collects the ingestion loop's result.
func (m Model) pollReadingCmd() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			var err error
			if m.runDone != nil {
				err = <-m.runDone
			}
			return streamDoneMsg{err: err}
		}
		return readingMsg(ev)
	}
}

// Latest returns the most recent reading shown on the dashboard.
func (m Model) Latest() (vitals.Reading, bool) {
	return m.last, m.haveVitals
}

// Banner returns the current surfaced failure text, empty when healthy.
func (m Model) Banner() string {
	return m.banner
}
