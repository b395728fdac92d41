package config

import (
	"time"

	"github.com/rileyhilliard/vitalscope/internal/session"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .vitalscope.yaml configuration file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	Device  DeviceConfig  `yaml:"device" mapstructure:"device"`
	Gateway GatewayConfig `yaml:"gateway" mapstructure:"gateway"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// DeviceConfig describes the serial-attached sensor.
type DeviceConfig struct {
	// Path is the serial device node, e.g. /dev/ttyUSB0. Empty means
	// pick from the enumerated ports at startup.
	Path string `yaml:"path" mapstructure:"path"`

	// Baud is the line speed. Must match the sensor firmware.
	Baud int `yaml:"baud" mapstructure:"baud"`
}

// GatewayConfig describes the persistence backend.
type GatewayConfig struct {
	// URL is the backend base URL. Empty means offline mode only.
	URL string `yaml:"url" mapstructure:"url"`

	// Token is the bearer token sent with every request.
	Token string `yaml:"token" mapstructure:"token"`

	// Timeout bounds each backend request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SessionConfig tunes the in-memory session and persistence forwarding.
type SessionConfig struct {
	// ForwardInterval is the minimum time between persisted readings.
	ForwardInterval time.Duration `yaml:"forward_interval" mapstructure:"forward_interval"`

	// BufferSize is how many readings the live session retains.
	BufferSize int `yaml:"buffer_size" mapstructure:"buffer_size"`

	// SeriesLen is how many points each sparkline shows.
	SeriesLen int `yaml:"series_len" mapstructure:"series_len"`

	// TailLen is how many readings the ticker shows.
	TailLen int `yaml:"tail_len" mapstructure:"tail_len"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Device: DeviceConfig{
			Baud: 115200,
		},
		Gateway: GatewayConfig{
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			ForwardInterval: session.DefaultForwardInterval,
			BufferSize:      session.DefaultBufferSize,
			SeriesLen:       session.DefaultSeriesLen,
			TailLen:         session.DefaultTailLen,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
