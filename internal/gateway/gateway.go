// Package gateway talks to the persistence backend: patients, monitoring
// sessions, and the readings appended to them. Two implementations exist,
// a REST client and an in-memory gateway for offline use and tests.
package gateway

import (
	"context"
	"time"

	"github.com/rileyhilliard/vitalscope/internal/vitals"
)

// Patient is one entry in the backend's patient roster.
type Patient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Room string `json:"room,omitempty"`
}

// Session is a monitoring session bound to one patient.
type Session struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	StartedAt time.Time `json:"startedAt"`
	ClosedAt  time.Time `json:"closedAt,omitempty"`
}

// PatientService exposes the patient roster.
type PatientService interface {
	ListPatients(ctx context.Context) ([]Patient, error)
}

// SessionService manages monitoring sessions and their readings. Callers
// clamp readings to plausible ranges before appending; the gateway persists
// what it is given.
type SessionService interface {
	CreateSession(ctx context.Context, patientID string) (*Session, error)
	CloseSession(ctx context.Context, sessionID string) error
	AppendReading(ctx context.Context, sessionID string, reading vitals.Reading) error
}
