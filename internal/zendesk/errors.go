package zendesk

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the remote service reports an unknown ticket id.
var ErrNotFound = errors.New("ticket not found")

// TransportError wraps a failure to reach the remote service.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("zendesk request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-success HTTP status from the remote service.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("zendesk request %s: unexpected status %d", e.URL, e.StatusCode)
}

// MappingError reports a raw record that cannot become a Ticket.
type MappingError struct {
	Field  string
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map ticket: field %q %s", e.Field, e.Reason)
}

// IsUpstream reports whether err is a transport or status failure.
func IsUpstream(err error) bool {
	var transportErr *TransportError
	var statusErr *StatusError
	return errors.As(err, &transportErr) || errors.As(err, &statusErr)
}
