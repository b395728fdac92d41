// Package monitor implements the live vitals dashboard.
//
// The dashboard is a Bubble Tea program fed by the ingestion loop. It is
// organized as:
//
//   - Model state and message handling (model.go)
//   - Keyboard input (keybindings.go)
//   - View rendering (view.go)
//   - Sparkline rendering (graphs.go)
//   - Styles and status colors (styles.go)
//
// # Data Flow
//
// The ingestion loop publishes accepted readings on an event channel. The
// model polls that channel with a tea.Cmd (readingMsg per event) and reads
// derived series straight from the session buffer when rendering. A
// once-a-second tick keeps the elapsed-time header moving even when the
// device is quiet.
//
// # Keyboard Shortcuts
//
//	s           Start monitoring (sends the start command to the device)
//	x           Stop monitoring
//	r           Reset the session buffer
//	q / Ctrl+C  Quit
//
// Starting via 's' records operator provenance. When the device streams a
// reading before anyone presses 's', monitoring auto-starts and the header
// shows an "auto-started by device" badge instead.
package monitor
