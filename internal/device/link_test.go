package device

import (
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vitalscope/internal/logger"
)

// openPtyLink opens a pty pair and a Link on the terminal side, so tests run
// against the real serial open path without hardware.
func openPtyLink(t *testing.T) (*os.File, Link) {
	t.Helper()

	master, tty, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); tty.Close() })

	link, err := Open(tty.Name(), DefaultBaudRate, logger.Noop())
	require.NoError(t, err)
	t.Cleanup(func() { link.Close() })

	return master, link
}

func waitLine(t *testing.T, link Link) string {
	t.Helper()
	select {
	case line, ok := <-link.Lines():
		require.True(t, ok, "line channel closed early")
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for line")
		return ""
	}
}

func waitClosed(t *testing.T, link Link) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-link.Lines():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for line channel to close")
		}
	}
}

func TestOpenReadsLines(t *testing.T) {
	master, link := openPtyLink(t)

	_, err := master.Write([]byte("{\"pulse\":72}\n{\"pulse\":73}\n"))
	require.NoError(t, err)

	assert.Equal(t, `{"pulse":72}`, waitLine(t, link))
	assert.Equal(t, `{"pulse":73}`, waitLine(t, link))
}

func TestOpenReassemblesAcrossChunks(t *testing.T) {
	master, link := openPtyLink(t)

	_, err := master.Write([]byte(`{"pulse":`))
	require.NoError(t, err)
	_, err = master.Write([]byte("72}\n"))
	require.NoError(t, err)

	assert.Equal(t, `{"pulse":72}`, waitLine(t, link))
}

func TestOpenMissingPort(t *testing.T) {
	_, err := Open("/dev/vitalscope-does-not-exist", DefaultBaudRate, logger.Noop())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPermissionDenied)
}

func TestWriteLineAppendsNewline(t *testing.T) {
	master, link := openPtyLink(t)

	require.NoError(t, SendStart(link))

	buf := make([]byte, 16)
	n, err := master.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(buf[:n]))
}

func TestWriteLineKeepsExistingNewline(t *testing.T) {
	master, link := openPtyLink(t)

	require.NoError(t, link.WriteLine("0\n"))

	buf := make([]byte, 16)
	n, err := master.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "0\n", string(buf[:n]))
}

func TestStopCommand(t *testing.T) {
	master, link := openPtyLink(t)

	require.NoError(t, SendStop(link))

	buf := make([]byte, 16)
	n, err := master.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "0\n", string(buf[:n]))
}

func TestCloseIsCleanAndIdempotent(t *testing.T) {
	master, tty, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); tty.Close() })

	link, err := Open(tty.Name(), DefaultBaudRate, logger.Noop())
	require.NoError(t, err)

	require.NoError(t, link.Close())
	require.NoError(t, link.Close())

	waitClosed(t, link)
	assert.NoError(t, link.Err())
}

func TestStreamLinkDropsUnterminatedFragment(t *testing.T) {
	local, remote := net.Pipe()

	link := newStreamLink(local, logger.Noop())
	t.Cleanup(func() { link.Close() })

	go func() {
		remote.Write([]byte("{\"pulse\":72,\"spo2\":98,\"temp\":36.6,\"sys\":120,\"dia\":80}\n{\"trunc"))
		remote.Close()
	}()

	assert.Equal(t, `{"pulse":72,"spo2":98,"temp":36.6,"sys":120,"dia":80}`, waitLine(t, link))

	// The stream ended mid-line; the fragment must not surface as a line.
	waitClosed(t, link)
	assert.NoError(t, link.Err())
}

// faultyConn reads one payload then fails with a permanent error, standing
// in for a device that vanished mid-session.
type faultyConn struct {
	payload []byte
	err     error
	served  bool
}

func (c *faultyConn) Read(p []byte) (int, error) {
	if !c.served {
		c.served = true
		return copy(p, c.payload), nil
	}
	return 0, c.err
}

func (c *faultyConn) Write(p []byte) (int, error) { return len(p), nil }
func (c *faultyConn) Close() error                { return nil }

func TestStreamLinkSurfacesReadFailure(t *testing.T) {
	readErr := errors.New("input/output error")
	link := newStreamLink(&faultyConn{payload: []byte("ok\n"), err: readErr}, logger.Noop())

	assert.Equal(t, "ok", waitLine(t, link))

	waitClosed(t, link)
	assert.ErrorIs(t, link.Err(), readErr)

	// Close after a failed read is still clean and does not mask the error.
	require.NoError(t, link.Close())
	assert.ErrorIs(t, link.Err(), readErr)
}
