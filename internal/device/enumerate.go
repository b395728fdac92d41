package device

import (
	serial "go.bug.st/serial"

	"github.com/rileyhilliard/vitalscope/internal/errors"
)

// ListPorts returns the serial port device paths present on this machine,
// in the order the OS reports them.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDevice,
			"cannot enumerate serial ports",
			"Check that your user has access to serial devices (dialout group on Linux)")
	}
	return ports, nil
}
