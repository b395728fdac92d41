package device

import (
	"io"
	"strings"
	"sync"

	"github.com/rileyhilliard/vitalscope/internal/logger"
)

// readBufferSize is the chunk size for raw reads from the connection.
const readBufferSize = 4096

// lineChanCapacity bounds the producer side so a stalled consumer applies
// back-pressure to the reader goroutine instead of growing without limit.
const lineChanCapacity = 64

// Link is an open, exclusively-owned device connection presented as
// line-oriented text I/O. Exactly one consumer may drain Lines at a time.
type Link interface {
	// Lines returns the channel of complete received lines. The channel is
	// closed when the connection ends; after that, Err reports whether the
	// stream ended because of a read failure.
	Lines() <-chan string

	// Err returns the read failure that terminated the stream, or nil if
	// the stream ended cleanly (including via Close).
	Err() error

	// WriteLine sends one text line to the device, appending "\n" if absent.
	WriteLine(line string) error

	// Close releases the connection. It is idempotent and best-effort: each
	// teardown step runs even if an earlier one fails.
	Close() error
}

// streamLink adapts any io.ReadWriteCloser (a serial port, a pty in tests)
// into a Link. A single reader goroutine owns the decode path.
type streamLink struct {
	conn io.ReadWriteCloser
	log  logger.Logger

	lines   chan string
	done    chan struct{}
	closing chan struct{}

	mu      sync.Mutex
	readErr error
	closed  bool

	closeOnce sync.Once
	closeErr  error

	writeMu sync.Mutex
}

// newStreamLink wraps conn and starts the reader goroutine.
func newStreamLink(conn io.ReadWriteCloser, log logger.Logger) *streamLink {
	if log == nil {
		log = logger.Default()
	}
	l := &streamLink{
		conn:    conn,
		log:     log,
		lines:   make(chan string, lineChanCapacity),
		done:    make(chan struct{}),
		closing: make(chan struct{}),
	}
	go l.readLoop()
	return l
}

// readLoop pulls raw chunks from the connection, reassembles lines, and
// delivers them in arrival order. It exits on read error or when the
// connection is closed underneath it.
func (l *streamLink) readLoop() {
	defer close(l.done)
	defer close(l.lines)

	var splitter lineSplitter
	buf := make([]byte, readBufferSize)

	for {
		n, err := l.conn.Read(buf)
		if n > 0 {
			for _, line := range splitter.push(buf[:n]) {
				select {
				case l.lines <- line:
				case <-l.closing:
					splitter.discard()
					return
				}
			}
		}
		if err != nil {
			// Whatever is left in the carry is an unterminated fragment;
			// it is dropped rather than delivered as a truncated message.
			if frag := splitter.pending(); frag != "" {
				l.log.Debug("discarding unterminated fragment (%d bytes)", len(frag))
				splitter.discard()
			}
			l.recordReadEnd(err)
			return
		}
	}
}

// recordReadEnd stores the terminal read error unless the link was closed
// intentionally, in which case the failure is expected and suppressed.
func (l *streamLink) recordReadEnd(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || err == io.EOF {
		return
	}
	l.readErr = err
}

func (l *streamLink) Lines() <-chan string {
	return l.lines
}

func (l *streamLink) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readErr
}

func (l *streamLink) WriteLine(line string) error {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	_, err := l.conn.Write([]byte(line))
	return err
}

// Close tears the link down. Steps run in order and each failure is logged
// and swallowed so one failing step never prevents the rest from running:
// mark closed (so the reader treats the failing read as expected), close the
// underlying connection (unblocking the reader), then await reader exit.
func (l *streamLink) Close() error {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()
		close(l.closing)

		if err := l.conn.Close(); err != nil {
			l.log.Debug("close connection: %v", err)
			l.closeErr = err
		}

		<-l.done
	})
	return l.closeErr
}
