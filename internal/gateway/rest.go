package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rileyhilliard/vitalscope/internal/errors"
	"github.com/rileyhilliard/vitalscope/internal/logger"
	"github.com/rileyhilliard/vitalscope/internal/vitals"
)

// RESTConfig holds the connection settings for the persistence backend.
type RESTConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// restGateway implements PatientService and SessionService over the
// backend's HTTP API.
type restGateway struct {
	client *resty.Client
	log    logger.Logger
}

// NewREST builds a gateway client for the backend at cfg.BaseURL.
func NewREST(cfg RESTConfig, log logger.Logger) (*restGateway, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New(errors.ErrGateway,
			"gateway URL is not configured",
			"Set gateway.url in your config file, or use --offline")
	}
	if log == nil {
		log = logger.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &restGateway{client: client, log: log}, nil
}

func (g *restGateway) ListPatients(ctx context.Context) ([]Patient, error) {
	var patients []Patient
	resp, err := g.client.R().
		SetContext(ctx).
		SetResult(&patients).
		Get("/api/patients")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrGateway,
			"cannot reach the backend",
			"Check gateway.url and your network connection")
	}
	if resp.IsError() {
		return nil, apiError(resp, "listing patients")
	}
	return patients, nil
}

// readingPayload is the wire shape of one appended reading. Values here
// are the already-clamped values the caller chose to persist.
type readingPayload struct {
	Timestamp        time.Time `json:"timestamp"`
	Pulse            float64   `json:"pulse"`
	OxygenSaturation float64   `json:"oxygenSaturation"`
	TemperatureC     float64   `json:"temperatureC"`
	Systolic         float64   `json:"systolic"`
	Diastolic        float64   `json:"diastolic"`
}

func (g *restGateway) CreateSession(ctx context.Context, patientID string) (*Session, error) {
	var session Session
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"patientId": patientID}).
		SetResult(&session).
		Post("/api/sessions")
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrGateway,
			"cannot create a session",
			"Check gateway.url and your network connection")
	}
	if resp.IsError() {
		return nil, apiError(resp, "creating session")
	}

	g.log.Debug("created session %s for patient %s", session.ID, patientID)
	return &session, nil
}

func (g *restGateway) CloseSession(ctx context.Context, sessionID string) error {
	resp, err := g.client.R().
		SetContext(ctx).
		Post("/api/sessions/" + sessionID + "/close")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrGateway,
			"cannot close session "+sessionID,
			"The session may still be open on the backend")
	}
	if resp.IsError() {
		return apiError(resp, "closing session")
	}
	return nil
}

func (g *restGateway) AppendReading(ctx context.Context, sessionID string, reading vitals.Reading) error {
	payload := readingPayload{
		Timestamp:        reading.Timestamp,
		Pulse:            reading.Pulse,
		OxygenSaturation: reading.OxygenSaturation,
		TemperatureC:     reading.TemperatureC,
		Systolic:         reading.Systolic,
		Diastolic:        reading.Diastolic,
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/api/sessions/" + sessionID + "/readings")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrGateway,
			"cannot append reading to session "+sessionID, "")
	}
	if resp.IsError() {
		return apiError(resp, "appending reading")
	}
	return nil
}

func apiError(resp *resty.Response, action string) error {
	return errors.New(errors.ErrGateway,
		fmt.Sprintf("backend rejected %s: %s", action, resp.Status()),
		"Check your gateway token and that the backend is up to date")
}
