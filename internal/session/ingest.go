package session

import (
	"context"
	"time"

	"github.com/rileyhilliard/vitalscope/internal/device"
	"github.com/rileyhilliard/vitalscope/internal/errors"
	"github.com/rileyhilliard/vitalscope/internal/gateway"
	"github.com/rileyhilliard/vitalscope/internal/logger"
	"github.com/rileyhilliard/vitalscope/internal/vitals"
)

// DefaultForwardInterval is the minimum time between persisted readings.
const DefaultForwardInterval = 1000 * time.Millisecond

// eventChanCapacity bounds the dashboard notification channel. The loop
// never blocks on it; a slow dashboard just misses intermediate events.
const eventChanCapacity = 64

// Event tells the dashboard that a reading was accepted.
type Event struct {
	Reading     vitals.Reading
	AutoStarted bool
}

// Ingestor is the single consumer of a device link. It parses incoming
// lines, fills the session buffer, flips monitoring on the first reading
// when the device starts itself, and forwards a throttled, clamped subset
// of readings to the backend.
type Ingestor struct {
	link      device.Link
	buffer    *Buffer
	state     *State
	sessions  gateway.SessionService
	sessionID string
	interval  time.Duration
	log       logger.Logger

	now      func() time.Time
	lastSent time.Time

	events chan Event
}

// IngestorConfig wires an Ingestor. Sessions may be nil, in which case
// nothing is forwarded.
type IngestorConfig struct {
	Link      device.Link
	Buffer    *Buffer
	State     *State
	Sessions  gateway.SessionService
	SessionID string
	Interval  time.Duration
	Log       logger.Logger
}

// NewIngestor builds an ingestor from cfg.
func NewIngestor(cfg IngestorConfig) *Ingestor {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultForwardInterval
	}
	log := cfg.Log
	if log == nil {
		log = logger.Default()
	}
	buffer := cfg.Buffer
	if buffer == nil {
		buffer = NewBuffer(DefaultBufferSize)
	}
	state := cfg.State
	if state == nil {
		state = NewState()
	}

	return &Ingestor{
		link:      cfg.Link,
		buffer:    buffer,
		state:     state,
		sessions:  cfg.Sessions,
		sessionID: cfg.SessionID,
		interval:  interval,
		log:       log,
		now:       time.Now,
		events:    make(chan Event, eventChanCapacity),
	}
}

// Events returns the channel the dashboard polls for accepted readings.
func (in *Ingestor) Events() <-chan Event {
	return in.events
}

// Buffer returns the session buffer the ingestor fills.
func (in *Ingestor) Buffer() *Buffer {
	return in.buffer
}

// State returns the monitoring state the ingestor flips on autostart.
func (in *Ingestor) State() *State {
	return in.state
}

// Run consumes the line stream until cancellation or end of stream.
// Cancellation returns nil; a stream that ends with a recorded read
// failure returns a device error unless cancellation was already
// requested.
func (in *Ingestor) Run(ctx context.Context) error {
	defer close(in.events)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-in.link.Lines():
			if !ok {
				return in.streamEnded(ctx)
			}
			in.handleLine(ctx, line)
		}
	}
}

func (in *Ingestor) handleLine(ctx context.Context, line string) {
	reading, ok := vitals.ParseLine(line, in.now())
	if !ok {
		in.log.Debug("dropping unparseable line (%d bytes)", len(line))
		return
	}

	in.buffer.Append(reading)

	auto := in.state.StartByDevice()
	if auto {
		in.log.Debug("monitoring auto-started by device stream")
	}

	in.publish(Event{Reading: reading, AutoStarted: auto})
	in.maybeForward(ctx, reading)
}

// maybeForward sends the current reading to the backend if the throttle
// interval has elapsed. Only the reading in hand is ever sent; skipped
// readings are not queued. The last-sent stamp advances at dispatch time,
// so a slow backend cannot compress the interval.
func (in *Ingestor) maybeForward(ctx context.Context, reading vitals.Reading) {
	if in.sessions == nil {
		return
	}

	now := in.now()
	if !in.lastSent.IsZero() && now.Sub(in.lastSent) < in.interval {
		return
	}
	in.lastSent = now

	clamped := reading.Clamped()
	go func() {
		if err := in.sessions.AppendReading(ctx, in.sessionID, clamped); err != nil {
			in.log.Warn("forwarding reading failed: %v", err)
		}
	}()
}

func (in *Ingestor) streamEnded(ctx context.Context) error {
	err := in.link.Err()
	if err == nil || ctx.Err() != nil {
		return nil
	}
	return errors.WrapWithCode(err, errors.ErrDevice,
		"device stream ended unexpectedly",
		"Check the cable and reconnect with 'vitalscope monitor'")
}

func (in *Ingestor) publish(ev Event) {
	select {
	case in.events <- ev:
	default:
	}
}
