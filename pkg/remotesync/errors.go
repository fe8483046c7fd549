package remotesync

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork      = errors.New("remote request failed")
	ErrRemoteFormat = errors.New("remote response malformed")
)

// NetworkError is a transport failure or a non-success status.
// StatusCode is 0 when no response arrived.
type NetworkError struct {
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Path, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s: HTTP %d", e.Path, e.StatusCode)
	}
}

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteFormatError is a body that does not decode to the expected shape.
type RemoteFormatError struct {
	Path   string
	Reason string
}

func (e *RemoteFormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *RemoteFormatError) Unwrap() error { return ErrRemoteFormat }
