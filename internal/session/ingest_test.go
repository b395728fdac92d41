package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vitalscope/internal/errors"
	"github.com/rileyhilliard/vitalscope/internal/gateway"
	"github.com/rileyhilliard/vitalscope/internal/logger"
	"github.com/rileyhilliard/vitalscope/internal/vitals"
)

// fakeLink feeds scripted lines to the ingestor.
type fakeLink struct {
	lines chan string
	err   error
}

func newFakeLink() *fakeLink {
	return &fakeLink{lines: make(chan string, 64)}
}

func (f *fakeLink) Lines() <-chan string       { return f.lines }
func (f *fakeLink) Err() error                 { return f.err }
func (f *fakeLink) WriteLine(line string) error { return nil }
func (f *fakeLink) Close() error               { return nil }

// recordingService counts and stores appended readings.
type recordingService struct {
	mu       sync.Mutex
	appended []vitals.Reading
	fail     error
}

func (s *recordingService) CreateSession(ctx context.Context, patientID string) (*gateway.Session, error) {
	return &gateway.Session{ID: "s1", PatientID: patientID}, nil
}

func (s *recordingService) CloseSession(ctx context.Context, sessionID string) error {
	return nil
}

func (s *recordingService) AppendReading(ctx context.Context, sessionID string, reading vitals.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.appended = append(s.appended, reading)
	return nil
}

func (s *recordingService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appended)
}

func (s *recordingService) last() vitals.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appended[len(s.appended)-1]
}

// fakeClock is a manually advanced clock shared with the ingestor.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func vitalLine(pulse float64) string {
	return fmt.Sprintf(`{"pulse":%g,"spo2":98,"temp":36.6,"sys":120,"dia":80}`, pulse)
}

type ingestHarness struct {
	link    *fakeLink
	service *recordingService
	clock   *fakeClock
	in      *Ingestor
	done    chan error
}

func startIngestor(t *testing.T, ctx context.Context) *ingestHarness {
	t.Helper()

	h := &ingestHarness{
		link:    newFakeLink(),
		service: &recordingService{},
		clock:   newFakeClock(),
		done:    make(chan error, 1),
	}
	h.in = NewIngestor(IngestorConfig{
		Link:      h.link,
		Sessions:  h.service,
		SessionID: "s1",
		Log:       logger.Noop(),
	})
	h.in.now = h.clock.Now

	go func() { h.done <- h.in.Run(ctx) }()
	return h
}

// feed sends a line and waits until the ingestor has accepted it.
func (h *ingestHarness) feed(t *testing.T, line string) Event {
	t.Helper()

	h.link.lines <- line
	select {
	case ev := <-h.in.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reading to be accepted")
		return Event{}
	}
}

func (h *ingestHarness) finish(t *testing.T) error {
	t.Helper()

	close(h.link.lines)
	select {
	case err := <-h.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for ingestor to stop")
		return nil
	}
}

func TestIngestorAppendsInArrivalOrder(t *testing.T) {
	h := startIngestor(t, context.Background())

	for i := 0; i < 5; i++ {
		h.feed(t, vitalLine(float64(70+i)))
	}
	require.NoError(t, h.finish(t))

	tail := h.in.Buffer().Tail(5)
	require.Len(t, tail, 5)
	for i, r := range tail {
		assert.Equal(t, float64(70+i), r.Pulse)
	}
}

func TestIngestorDropsUnparseableLines(t *testing.T) {
	h := startIngestor(t, context.Background())

	h.link.lines <- "boot: sensor v2.4 ready"
	h.link.lines <- `{"pulse":`
	h.feed(t, vitalLine(72))

	require.NoError(t, h.finish(t))
	assert.Equal(t, 1, h.in.Buffer().Len())
}

func TestIngestorStampsReceiptTime(t *testing.T) {
	h := startIngestor(t, context.Background())

	ev := h.feed(t, vitalLine(72))
	assert.Equal(t, h.clock.Now(), ev.Reading.Timestamp)

	require.NoError(t, h.finish(t))
}

func TestIngestorThrottlesForwarding(t *testing.T) {
	h := startIngestor(t, context.Background())

	// A burst well inside the interval forwards only the first reading.
	for i := 0; i < 10; i++ {
		h.feed(t, vitalLine(float64(70 + i)))
		h.clock.Advance(20 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return h.service.count() == 1 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, 70.0, h.service.last().Pulse)

	// Once the interval has elapsed the next reading goes out.
	h.clock.Advance(DefaultForwardInterval)
	h.feed(t, vitalLine(90))
	require.Eventually(t, func() bool { return h.service.count() == 2 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, 90.0, h.service.last().Pulse)

	require.NoError(t, h.finish(t))
	assert.Equal(t, 2, h.service.count(), "no backlog is flushed")
}

func TestIngestorForwardsClampedValues(t *testing.T) {
	h := startIngestor(t, context.Background())

	h.feed(t, vitalLine(300))
	require.Eventually(t, func() bool { return h.service.count() == 1 },
		time.Second, 5*time.Millisecond)

	// The backend sees the clamped value, the live buffer keeps the raw one.
	assert.Equal(t, 240.0, h.service.last().Pulse)
	latest, ok := h.in.Buffer().Latest()
	require.True(t, ok)
	assert.Equal(t, 300.0, latest.Pulse)

	require.NoError(t, h.finish(t))
}

func TestIngestorSwallowsForwardErrors(t *testing.T) {
	h := startIngestor(t, context.Background())
	h.service.fail = fmt.Errorf("backend down")

	h.feed(t, vitalLine(72))
	h.clock.Advance(DefaultForwardInterval)
	h.feed(t, vitalLine(73))

	require.NoError(t, h.finish(t))
	assert.Equal(t, 2, h.in.Buffer().Len())
}

func TestIngestorAutostart(t *testing.T) {
	h := startIngestor(t, context.Background())

	ev := h.feed(t, vitalLine(72))
	assert.True(t, ev.AutoStarted)

	active, origin, _ := h.in.State().Snapshot()
	assert.True(t, active)
	assert.Equal(t, StartedByDevice, origin)

	ev = h.feed(t, vitalLine(73))
	assert.False(t, ev.AutoStarted)

	require.NoError(t, h.finish(t))
}

func TestIngestorNoAutostartAfterOperator(t *testing.T) {
	h := startIngestor(t, context.Background())
	h.in.State().StartByOperator()

	ev := h.feed(t, vitalLine(72))
	assert.False(t, ev.AutoStarted)

	_, origin, _ := h.in.State().Snapshot()
	assert.Equal(t, StartedByOperator, origin)

	require.NoError(t, h.finish(t))
}

func TestIngestorCancellationIsSilent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := startIngestor(t, ctx)

	h.feed(t, vitalLine(72))
	cancel()

	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for cancellation")
	}
}

func TestIngestorSurfacesReadFailure(t *testing.T) {
	h := startIngestor(t, context.Background())
	h.link.err = fmt.Errorf("input/output error")

	err := h.finish(t)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDevice))
}

func TestIngestorReadFailureAfterCancelIsSilent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := startIngestor(t, ctx)
	h.link.err = fmt.Errorf("input/output error")

	cancel()
	// Give the loop a moment to observe cancellation, then end the stream.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, h.finish(t))
}

func TestIngestorWithoutGateway(t *testing.T) {
	link := newFakeLink()
	in := NewIngestor(IngestorConfig{Link: link, Log: logger.Noop()})

	done := make(chan error, 1)
	go func() { done <- in.Run(context.Background()) }()

	link.lines <- vitalLine(72)
	select {
	case <-in.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	close(link.lines)
	require.NoError(t, <-done)
	assert.Equal(t, 1, in.Buffer().Len())
}
