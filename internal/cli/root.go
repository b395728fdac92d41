package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/vitalscope/internal/config"
)

// Global flags available to all subcommands.
var (
	cfgFile     string
	noColorFlag bool
)

// rootCmd is the base command for vitalscope.
var rootCmd = &cobra.Command{
	Use:   "vitalscope",
	Short: "Bedside vitals monitor for serial-attached sensors",
	Long: `vitalscope streams vital-sign readings from a serial-attached patient
monitor into a live terminal dashboard, and forwards a throttled subset
of readings to the clinical persistence backend.

Run 'vitalscope monitor' at the workstation the sensor is plugged into.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Errors are printed in their structured
// form and exit non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: search for .vitalscope.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable color output")
}

// loadConfig resolves, loads, and validates the configuration, then applies
// the color mode to the terminal renderer.
func loadConfig() (*config.Config, error) {
	path, err := config.Find(cfgFile)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	applyColorMode(cfg.Output.Color)
	return cfg, nil
}

// applyColorMode degrades or forces the lipgloss color profile.
func applyColorMode(mode string) {
	if noColorFlag || mode == "never" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	if mode == "always" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
	// "auto" keeps the detected profile.
}
