// Package cli implements the vitalscope command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to workflow functions for the actual work:
//
//	vitalscope monitor   - Open the sensor and run the live dashboard
//	vitalscope devices   - List serial ports
//	vitalscope patients  - Print the patient roster
//	vitalscope init      - Create .vitalscope.yaml config
//	vitalscope version   - Print version information
//
// # Monitoring Workflow
//
// The monitor command handles the phases of a session in order:
//
//  1. Load and validate config
//  2. Open the serial device (enumerating ports if none is configured)
//  3. Pick a patient (interactive select, or --patient)
//  4. Create a monitoring session on the backend
//  5. Run the ingestion loop and dashboard until quit
//  6. Tear down: stop the loop, release the port, close the session
//
// Aborting the patient or port picker is a normal cancellation, not an
// error: the command exits zero without starting a session. Likewise a
// port the user may not open is skipped quietly.
//
// # Flag Handling
//
// Global flags (--config, --no-color) are defined on the root command and
// available to all subcommands. Command-specific flags like --device and
// --patient are defined on individual commands.
package cli
