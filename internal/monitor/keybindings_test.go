package monitor

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vitalscope/internal/session"
)

func keyMsg(key string) tea.KeyMsg {
	if key == "ctrl+c" {
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []string{KeyQuit, KeyQuitAlt} {
		t.Run(key, func(t *testing.T) {
			f := newModelFixture()

			handled, cmd := f.model.HandleKeyMsg(keyMsg(key))
			assert.True(t, handled)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.Quit(), cmd())
		})
	}
}

func TestStartKeySendsCommandAndRecordsOperator(t *testing.T) {
	f := newModelFixture()

	handled, _ := f.model.HandleKeyMsg(keyMsg(KeyStart))
	assert.True(t, handled)

	assert.Equal(t, []string{"1"}, f.link.written)
	active, origin, _ := f.state.Snapshot()
	assert.True(t, active)
	assert.Equal(t, session.StartedByOperator, origin)
}

func TestStopKeySendsCommand(t *testing.T) {
	f := newModelFixture()
	f.state.StartByOperator()

	handled, _ := f.model.HandleKeyMsg(keyMsg(KeyStop))
	assert.True(t, handled)

	assert.Equal(t, []string{"0"}, f.link.written)
	assert.False(t, f.state.Active())
}

func TestStartKeyWriteFailureShowsBanner(t *testing.T) {
	f := newModelFixture()
	f.link.writeErr = fmt.Errorf("port gone")

	f.model.HandleKeyMsg(keyMsg(KeyStart))

	assert.Contains(t, f.model.Banner(), "start command failed")
	assert.False(t, f.state.Active(), "state stays off when the command never reached the device")
}

func TestResetKeyClearsBuffer(t *testing.T) {
	f := newModelFixture()
	f.buffer.Append(testReading(72))
	f.model.Update(readingMsg{Reading: testReading(72)})

	handled, _ := f.model.HandleKeyMsg(keyMsg(KeyReset))
	assert.True(t, handled)
	assert.Zero(t, f.buffer.Len())
}

func TestUnboundKeyIgnored(t *testing.T) {
	f := newModelFixture()

	handled, cmd := f.model.HandleKeyMsg(keyMsg("z"))
	assert.False(t, handled)
	assert.Nil(t, cmd)
}
