package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/rileyhilliard/vitalscope/internal/config"
	"github.com/rileyhilliard/vitalscope/internal/device"
	"github.com/rileyhilliard/vitalscope/internal/errors"
	"github.com/rileyhilliard/vitalscope/internal/gateway"
	"github.com/rileyhilliard/vitalscope/internal/logger"
	"github.com/rileyhilliard/vitalscope/internal/monitor"
	"github.com/rileyhilliard/vitalscope/internal/session"
)

// services bundles the two backend interfaces a monitoring run needs.
type services interface {
	gateway.PatientService
	gateway.SessionService
}

// monitorCommand runs the full monitoring workflow: open the device, pick
// a patient, create a session, ingest + dashboard, then tear down.
func monitorCommand(devicePath string, baud int, patientID string, offline bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"vitalscope monitor needs an interactive terminal",
			"Run it directly in a terminal, not through a pipe or redirect")
	}

	log := logger.Default()

	// Resolve and open the serial device
	if devicePath == "" {
		devicePath = cfg.Device.Path
	}
	if baud <= 0 {
		baud = cfg.Device.Baud
	}
	if devicePath == "" {
		devicePath, err = pickDevice()
		if err != nil {
			return err
		}
		if devicePath == "" {
			// Picker aborted
			return nil
		}
	}

	link, err := device.Open(devicePath, baud, log)
	if err != nil {
		if err == device.ErrPermissionDenied {
			log.Debug("no permission to open %s, nothing to do", devicePath)
			return nil
		}
		return err
	}
	defer link.Close()

	// Resolve the gateway
	svc, err := resolveServices(cfg, offline)
	if err != nil {
		return err
	}

	// Pick a patient
	patient, ok, err := pickPatient(svc, patientID)
	if err != nil {
		return err
	}
	if !ok {
		// Picker aborted
		return nil
	}

	// Create the session
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, err := svc.CreateSession(ctx, patient.ID)
	if err != nil {
		return err
	}

	// Start the ingestion loop
	buffer := session.NewBuffer(cfg.Session.BufferSize)
	state := session.NewState()
	ingestor := session.NewIngestor(session.IngestorConfig{
		Link:      link,
		Buffer:    buffer,
		State:     state,
		Sessions:  svc,
		SessionID: sess.ID,
		Interval:  cfg.Session.ForwardInterval,
		Log:       log,
	})

	runDone := make(chan error, 1)
	go func() { runDone <- ingestor.Run(ctx) }()

	// Run the dashboard
	model := monitor.NewModel(monitor.ModelConfig{
		Link:      link,
		Buffer:    buffer,
		State:     state,
		Events:    ingestor.Events(),
		RunDone:   runDone,
		Patient:   patient,
		SessionID: sess.ID,
		Offline:   offline,
		SeriesLen: cfg.Session.SeriesLen,
		TailLen:   cfg.Session.TailLen,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()

	// Teardown: stop the loop, release the port, close the session. Each
	// step's failure is logged and the remaining steps still run.
	cancel()
	if err := link.Close(); err != nil {
		log.Debug("closing device link: %v", err)
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), closeSessionTimeout)
	defer closeCancel()
	if err := svc.CloseSession(closeCtx, sess.ID); err != nil {
		log.Warn("closing session %s: %v", sess.ID, err)
	}

	return runErr
}

// resolveServices picks the in-memory gateway for offline runs and the REST
// gateway otherwise.
func resolveServices(cfg *config.Config, offline bool) (services, error) {
	if offline || cfg.Gateway.URL == "" {
		return gateway.NewMemory(), nil
	}
	return gateway.NewREST(gateway.RESTConfig{
		BaseURL: cfg.Gateway.URL,
		Token:   cfg.Gateway.Token,
		Timeout: cfg.Gateway.Timeout,
	}, logger.Default())
}

// pickDevice lists serial ports and asks the operator to choose one.
// Returns empty string when the picker is aborted.
func pickDevice() (string, error) {
	ports, err := device.ListPorts()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", errors.New(errors.ErrDevice,
			"No serial ports found",
			"Plug the sensor in, or pass --device explicitly")
	}
	if len(ports) == 1 {
		return ports[0], nil
	}

	options := make([]huh.Option[string], 0, len(ports))
	for _, p := range ports {
		options = append(options, huh.NewOption(p, p))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which port is the sensor on?").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		// User cancelled
		return "", nil
	}
	return selected, nil
}

// pickPatient resolves the patient for this session. With an explicit ID
// it is looked up in the roster; otherwise the operator picks from a list.
// ok is false when the operator aborted the picker.
func pickPatient(svc gateway.PatientService, patientID string) (gateway.Patient, bool, error) {
	patients, err := svc.ListPatients(context.Background())
	if err != nil {
		return gateway.Patient{}, false, err
	}
	if len(patients) == 0 {
		return gateway.Patient{}, false, errors.New(errors.ErrGateway,
			"The patient roster is empty",
			"Register patients on the backend before starting a session")
	}

	if patientID != "" {
		for _, p := range patients {
			if p.ID == patientID {
				return p, true, nil
			}
		}
		return gateway.Patient{}, false, errors.New(errors.ErrSession,
			"Unknown patient ID: "+patientID,
			"Run 'vitalscope patients' to see the roster")
	}

	options := make([]huh.Option[string], 0, len(patients))
	for _, p := range patients {
		label := p.Name
		if p.Room != "" {
			label = fmt.Sprintf("%s (room %s)", p.Name, p.Room)
		}
		options = append(options, huh.NewOption(label, p.ID))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Who is being monitored?").
				Options(options...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		// User cancelled
		return gateway.Patient{}, false, nil
	}

	for _, p := range patients {
		if p.ID == selected {
			return p, true, nil
		}
	}
	return gateway.Patient{}, false, nil
}
