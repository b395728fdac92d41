package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rileyhilliard/vitalscope/internal/errors"
	"github.com/rileyhilliard/vitalscope/internal/vitals"
)

// MemoryGateway keeps patients, sessions, and readings in process memory.
// It backs --offline mode and doubles as the test gateway.
type MemoryGateway struct {
	mu       sync.Mutex
	patients []Patient
	sessions map[string]*Session
	readings map[string][]vitals.Reading
}

// demoRoster is the patient list offered when no backend is configured.
var demoRoster = []Patient{
	{ID: "demo-001", Name: "Alex Rivera", Room: "204A"},
	{ID: "demo-002", Name: "Jordan Chen", Room: "204B"},
	{ID: "demo-003", Name: "Sam Okafor", Room: "207"},
}

// NewMemory creates an in-memory gateway seeded with the demo roster.
func NewMemory() *MemoryGateway {
	return &MemoryGateway{
		patients: append([]Patient(nil), demoRoster...),
		sessions: make(map[string]*Session),
		readings: make(map[string][]vitals.Reading),
	}
}

// SetPatients replaces the roster. Used by tests.
func (g *MemoryGateway) SetPatients(patients []Patient) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.patients = append([]Patient(nil), patients...)
}

func (g *MemoryGateway) ListPatients(ctx context.Context) ([]Patient, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Patient(nil), g.patients...), nil
}

func (g *MemoryGateway) CreateSession(ctx context.Context, patientID string) (*Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	session := &Session{
		ID:        uuid.NewString(),
		PatientID: patientID,
		StartedAt: time.Now(),
	}
	g.sessions[session.ID] = session

	out := *session
	return &out, nil
}

func (g *MemoryGateway) CloseSession(ctx context.Context, sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	session, ok := g.sessions[sessionID]
	if !ok {
		return errors.New(errors.ErrSession,
			"unknown session "+sessionID, "")
	}
	session.ClosedAt = time.Now()
	return nil
}

func (g *MemoryGateway) AppendReading(ctx context.Context, sessionID string, reading vitals.Reading) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.sessions[sessionID]; !ok {
		return errors.New(errors.ErrSession,
			"unknown session "+sessionID, "")
	}
	g.readings[sessionID] = append(g.readings[sessionID], reading)
	return nil
}

// Readings returns a copy of everything appended to a session. Used by
// tests and the offline session summary.
func (g *MemoryGateway) Readings(sessionID string) []vitals.Reading {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]vitals.Reading(nil), g.readings[sessionID]...)
}

// SessionByID returns the stored session, or nil if it does not exist.
func (g *MemoryGateway) SessionByID(sessionID string) *Session {
	g.mu.Lock()
	defer g.mu.Unlock()

	session, ok := g.sessions[sessionID]
	if !ok {
		return nil
	}
	out := *session
	return &out
}
