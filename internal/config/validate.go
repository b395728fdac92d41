package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rileyhilliard/vitalscope/internal/errors"
)

// standardBauds are the line speeds the sensor firmware can be built for.
var standardBauds = map[int]bool{
	9600:   true,
	19200:  true,
	38400:  true,
	57600:  true,
	115200: true,
	230400: true,
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but vitalscope only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Update vitalscope, or regenerate the config with 'vitalscope init --force'")
	}

	if err := validateDevice(cfg.Device); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'device' section in your .vitalscope.yaml.")
	}

	if err := validateGateway(cfg.Gateway); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'gateway' section in your .vitalscope.yaml.")
	}

	if err := validateSession(cfg.Session); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'session' section in your .vitalscope.yaml.")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .vitalscope.yaml.")
	}

	return nil
}

func validateDevice(d DeviceConfig) error {
	if d.Baud <= 0 {
		return fmt.Errorf("device baud must be positive, got %d", d.Baud)
	}
	if !standardBauds[d.Baud] {
		return fmt.Errorf("unusual baud rate %d - the sensor firmware ships at 115200", d.Baud)
	}
	return nil
}

func validateGateway(g GatewayConfig) error {
	if g.URL != "" {
		u, err := url.Parse(g.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("gateway url %q is not a valid http(s) URL", g.URL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("gateway url scheme must be http or https, got %q", u.Scheme)
		}
	}
	if g.Timeout < 0 {
		return fmt.Errorf("gateway timeout cannot be negative")
	}
	return nil
}

func validateSession(s SessionConfig) error {
	if s.ForwardInterval < 100*time.Millisecond {
		return fmt.Errorf("session forward_interval must be at least 100ms, got %s", s.ForwardInterval)
	}
	if s.BufferSize <= 0 {
		return fmt.Errorf("session buffer_size must be positive, got %d", s.BufferSize)
	}
	if s.SeriesLen <= 0 || s.SeriesLen > s.BufferSize {
		return fmt.Errorf("session series_len must be between 1 and buffer_size, got %d", s.SeriesLen)
	}
	if s.TailLen <= 0 || s.TailLen > s.BufferSize {
		return fmt.Errorf("session tail_len must be between 1 and buffer_size, got %d", s.TailLen)
	}
	return nil
}

func validateOutput(o OutputConfig) error {
	switch o.Color {
	case "", "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("output color must be 'auto', 'always', or 'never', got %q", o.Color)
	}
}
