package httpclient

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHeader is returned when a header key or value is not a string.
	ErrInvalidHeader = errors.New("headers must be in the format {\"Key\": \"Value\"}")
	// ErrEmptyEndpoint is returned by Get when the endpoint is blank.
	ErrEmptyEndpoint = errors.New("get requires a non-empty endpoint")
	// ErrTransport matches every *TransportError via errors.Is.
	ErrTransport = errors.New("transport error")
)

// TransportError reports a failed exchange. No response is available when it is returned.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTransport) match any transport failure.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }
