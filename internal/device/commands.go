package device

// The monitor firmware understands a one-character command protocol.
const (
	cmdStartStreaming = "1"
	cmdStopStreaming  = "0"
)

// SendStart asks the device to begin streaming vitals.
func SendStart(link Link) error {
	return link.WriteLine(cmdStartStreaming)
}

// SendStop asks the device to stop streaming vitals.
func SendStop(link Link) error {
	return link.WriteLine(cmdStopStreaming)
}
