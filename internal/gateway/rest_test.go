package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vitalscope/internal/errors"
	"github.com/rileyhilliard/vitalscope/internal/logger"
	"github.com/rileyhilliard/vitalscope/internal/vitals"
)

func newTestGateway(t *testing.T, handler http.Handler) *restGateway {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewREST(RESTConfig{BaseURL: srv.URL, Token: "test-token"}, logger.Noop())
	require.NoError(t, err)
	return g
}

func TestNewRESTRequiresBaseURL(t *testing.T) {
	_, err := NewREST(RESTConfig{}, logger.Noop())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrGateway))
}

func TestListPatients(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/patients", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Patient{
			{ID: "p1", Name: "Alex Rivera", Room: "204A"},
			{ID: "p2", Name: "Jordan Chen"},
		})
	}))

	patients, err := g.ListPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "p1", patients[0].ID)
	assert.Equal(t, "204A", patients[0].Room)
}

func TestCreateSession(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sessions", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["patientId"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Session{ID: "s1", PatientID: "p1", StartedAt: time.Now()})
	}))

	session, err := g.CreateSession(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "s1", session.ID)
	assert.Equal(t, "p1", session.PatientID)
}

func TestCloseSession(t *testing.T) {
	var gotPath string
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, g.CloseSession(context.Background(), "s1"))
	assert.Equal(t, "/api/sessions/s1/close", gotPath)
}

func TestAppendReadingSendsClampedValuesVerbatim(t *testing.T) {
	var got readingPayload
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sessions/s1/readings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))

	reading := vitals.Reading{
		Timestamp:        time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Pulse:            240,
		OxygenSaturation: 97,
		TemperatureC:     36.8,
		Systolic:         118,
		Diastolic:        76,
	}
	require.NoError(t, g.AppendReading(context.Background(), "s1", reading))

	// The gateway persists whatever it is given, clamped or not.
	assert.Equal(t, 240.0, got.Pulse)
	assert.Equal(t, 97.0, got.OxygenSaturation)
	assert.Equal(t, reading.Timestamp, got.Timestamp)
}

func TestAPIErrorSurfacesGatewayCode(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))

	_, err := g.ListPatients(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrGateway))
}

func TestContextCancellation(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.ListPatients(ctx)
	require.Error(t, err)
}
