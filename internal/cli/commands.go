package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/vitalscope/internal/config"
	"github.com/rileyhilliard/vitalscope/internal/errors"
)

// Command-specific flags
var (
	monitorDeviceFlag  string
	monitorBaudFlag    int
	monitorPatientFlag string
	monitorOffline     bool
	patientsOffline    bool
	initForce          bool
)

// monitorCmd opens the device and runs the live dashboard.
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Stream vitals from the sensor into a live dashboard",
	Long: `Open the serial-attached sensor, start a monitoring session for a
patient, and render a live dashboard of their vital signs.

Readings stream in as NDJSON lines. Accepted readings fill the session
buffer (raw values on screen) and a throttled, range-clamped subset is
forwarded to the persistence backend.

Keyboard shortcuts:
  s           Start monitoring (device begins streaming)
  x           Stop monitoring
  r           Reset the session buffer
  q / Ctrl+C  Quit and close the session

Examples:
  vitalscope monitor
  vitalscope monitor --device /dev/ttyUSB0 --patient demo-001
  vitalscope monitor --offline`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(monitorDeviceFlag, monitorBaudFlag, monitorPatientFlag, monitorOffline)
	},
}

// devicesCmd lists candidate serial ports.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List serial ports the sensor could be attached to",
	Long: `List the serial ports present on this machine.

Examples:
  vitalscope devices`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return devicesCommand()
	},
}

// patientsCmd prints the patient roster.
var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "List patients from the persistence backend",
	Long: `Print the patient roster the backend knows about.

With --offline (or no gateway configured) the built-in demo roster is
shown instead.

Examples:
  vitalscope patients
  vitalscope patients --offline`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return patientsCommand(patientsOffline)
	},
}

// initCmd creates a new .vitalscope.yaml configuration.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .vitalscope.yaml configuration",
	Long: `Write a starter configuration file in the current directory.

Examples:
  vitalscope init
  vitalscope init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteStarter(config.ConfigFileName, initForce); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.ConfigFileName)
		return nil
	},
}

// completionCmd generates shell completion scripts.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for vitalscope.

Examples:
  # Bash
  vitalscope completion bash > /etc/bash_completion.d/vitalscope

  # Zsh
  vitalscope completion zsh > "${fpath[1]}/_vitalscope"

  # Fish
  vitalscope completion fish > ~/.config/fish/completions/vitalscope.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

// closeSessionTimeout bounds the session close call during teardown.
const closeSessionTimeout = 5 * time.Second

func init() {
	// monitor command flags
	monitorCmd.Flags().StringVar(&monitorDeviceFlag, "device", "", "serial device path (e.g., /dev/ttyUSB0)")
	monitorCmd.Flags().IntVar(&monitorBaudFlag, "baud", 0, "baud rate (default from config)")
	monitorCmd.Flags().StringVar(&monitorPatientFlag, "patient", "", "patient ID (skips the interactive picker)")
	monitorCmd.Flags().BoolVar(&monitorOffline, "offline", false, "use the in-memory gateway instead of the backend")

	// patients command shares --offline
	patientsCmd.Flags().BoolVar(&patientsOffline, "offline", false, "show the built-in demo roster")

	// init command flags
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	// Register all commands
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(patientsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
