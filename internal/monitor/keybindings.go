package monitor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/vitalscope/internal/device"
)

// Key bindings as constants for consistency.
const (
	KeyQuit    = "q"
	KeyQuitAlt = "ctrl+c"
	KeyStart   = "s"
	KeyStop    = "x"
	KeyReset   = "r"
)

// HandleKeyMsg processes keyboard input. Returns true if the key was
// handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyStart:
		if err := device.SendStart(m.link); err != nil {
			m.banner = "start command failed: " + err.Error()
			return true, nil
		}
		m.state.StartByOperator()
		m.banner = ""
		return true, nil

	case KeyStop:
		if err := device.SendStop(m.link); err != nil {
			m.banner = "stop command failed: " + err.Error()
			return true, nil
		}
		m.state.Stop()
		return true, nil

	case KeyReset:
		m.buffer.Reset()
		m.haveVitals = false
		return true, nil
	}

	return false, nil
}
