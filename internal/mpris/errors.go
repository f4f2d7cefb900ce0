package mpris

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

var ErrInvalidIndex = errors.New("invalid track index")

// BusError reports a failed method call: transport failure, malformed message
// or an error reply from the remote side.
type BusError struct {
	Method  string
	Name    string
	Message string
	Err     error
}

func newBusError(method string, err error) *BusError {
	busErr := &BusError{
		Method:  method,
		Message: err.Error(),
		Err:     err,
	}

	var remote dbus.Error
	var remotePtr *dbus.Error
	if errors.As(err, &remote) {
		busErr.fromRemote(remote)
	} else if errors.As(err, &remotePtr) && remotePtr != nil {
		busErr.fromRemote(*remotePtr)
	}
	return busErr
}

func (e *BusError) fromRemote(remote dbus.Error) {
	e.Name = remote.Name
	if len(remote.Body) > 0 {
		if message, ok := remote.Body[0].(string); ok {
			e.Message = message
		}
	}
}

func (e *BusError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s: %s", e.Method, e.Name, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Method, e.Message)
}

func (e *BusError) Unwrap() error {
	return e.Err
}
