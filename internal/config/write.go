package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/vitalscope/internal/errors"
)

const starterHeader = `# vitalscope configuration
# device.path   - serial device node (leave empty to pick at startup)
# gateway.url   - persistence backend; leave empty for offline mode
`

// starterConfig mirrors DefaultConfig with durations spelled as strings,
// so the generated file reads "1s" instead of nanosecond counts.
func starterConfig() map[string]any {
	def := DefaultConfig()
	return map[string]any{
		"version": def.Version,
		"device": map[string]any{
			"path": def.Device.Path,
			"baud": def.Device.Baud,
		},
		"gateway": map[string]any{
			"url":     def.Gateway.URL,
			"token":   def.Gateway.Token,
			"timeout": def.Gateway.Timeout.String(),
		},
		"session": map[string]any{
			"forward_interval": def.Session.ForwardInterval.String(),
			"buffer_size":      def.Session.BufferSize,
			"series_len":       def.Session.SeriesLen,
			"tail_len":         def.Session.TailLen,
		},
		"output": map[string]any{
			"color": def.Output.Color,
		},
	}
}

// WriteStarter writes a starter config to path. Refuses to overwrite an
// existing file unless force is set.
func WriteStarter(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Use --force to overwrite it")
		}
	}

	body, err := yaml.Marshal(starterConfig())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot render starter config", "")
	}

	content := append([]byte(starterHeader), body...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write config file: "+path,
			"Check directory permissions")
	}
	return nil
}
