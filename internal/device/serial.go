package device

import (
	stderrors "errors"

	serial "go.bug.st/serial"

	"github.com/rileyhilliard/vitalscope/internal/errors"
	"github.com/rileyhilliard/vitalscope/internal/logger"
)

// DefaultBaudRate matches the sensor firmware's configured line speed.
const DefaultBaudRate = 115200

// ErrPermissionDenied reports that the port exists but the current user
// may not open it. Enumeration skips such ports without surfacing them.
var ErrPermissionDenied = stderrors.New("permission denied opening port")

// Open opens the serial port at path and returns a line-oriented Link
// owning it exclusively.
func Open(path string, baud int, log logger.Logger) (Link, error) {
	if log == nil {
		log = logger.Default()
	}
	if baud <= 0 {
		baud = DefaultBaudRate
	}

	port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, classifyOpenError(path, err)
	}

	log.Debug("opened %s at %d baud", path, baud)
	return newStreamLink(port, log), nil
}

// classifyOpenError separates ports we may not touch from ports that are
// genuinely unusable. Permission failures map to ErrPermissionDenied so
// callers can skip the port quietly; everything else is a device error
// worth telling the operator about.
func classifyOpenError(path string, err error) error {
	var portErr *serial.PortError
	if stderrors.As(err, &portErr) && portErr.Code() == serial.PermissionDenied {
		return ErrPermissionDenied
	}

	return errors.WrapWithCode(err, errors.ErrDevice,
		"cannot open serial port "+path,
		"Check that the monitor is plugged in and no other program holds the port")
}
