package session

import (
	"sync"
	"time"
)

// StartOrigin records who put monitoring into the active state.
type StartOrigin int

const (
	// OriginNone means monitoring has not started.
	OriginNone StartOrigin = iota
	// StartedByOperator means the operator pressed start.
	StartedByOperator
	// StartedByDevice means the device streamed a reading before anyone
	// pressed start, and monitoring activated itself.
	StartedByDevice
)

func (o StartOrigin) String() string {
	switch o {
	case StartedByOperator:
		return "operator"
	case StartedByDevice:
		return "device"
	default:
		return "none"
	}
}

// State is the monitoring on/off switch plus its provenance. The ingestion
// loop and the dashboard both touch it.
type State struct {
	mu        sync.Mutex
	active    bool
	origin    StartOrigin
	startedAt time.Time
}

// NewState returns an inactive state.
func NewState() *State {
	return &State{}
}

// StartByOperator marks monitoring active on the operator's request.
// An operator start always wins over a device autostart.
func (s *State) StartByOperator() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		s.startedAt = time.Now()
	}
	s.active = true
	s.origin = StartedByOperator
}

// StartByDevice marks monitoring active because a reading arrived while
// monitoring was off. It reports whether it flipped the state; if the
// operator already started, nothing changes.
func (s *State) StartByDevice() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return false
	}
	s.active = true
	s.origin = StartedByDevice
	s.startedAt = time.Now()
	return true
}

// Stop marks monitoring inactive. Origin is kept so the UI can still show
// how the last run began.
func (s *State) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// Snapshot returns the current activity flag, origin, and start time.
func (s *State) Snapshot() (active bool, origin StartOrigin, startedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.origin, s.startedAt
}

// Active reports whether monitoring is on.
func (s *State) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
