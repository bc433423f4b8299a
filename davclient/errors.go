package davclient

import (
	"errors"
	"fmt"

	"github.com/cyp0633/caldavreport/internal/httpclient"
)

var (
	// ErrInvalidQuery marks a report query that cannot be turned into a
	// request document. It's a caller defect: retrying will not help.
	ErrInvalidQuery = errors.New("invalid report query")

	// ErrAlreadyExecuted is returned when a method is executed twice
	ErrAlreadyExecuted = httpclient.ErrAlreadyExecuted
	// ErrNotExecuted is returned when a response is read before execution
	ErrNotExecuted = httpclient.ErrNotExecuted
)

// HTTPError is returned when the server answers with a non-2xx status
type HTTPError = httpclient.StatusError

// QueryError reports a query that failed validation. No request was sent.
type QueryError struct {
	Path string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("cannot build REPORT body for %s: %v", e.Path, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidQuery) hold for every QueryError
func (e *QueryError) Is(target error) bool { return target == ErrInvalidQuery }

// ProtocolError reports a response that is not calendar data
type ProtocolError struct {
	Path        string
	ContentType string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("expected content-type %s from %s, was %q", calendarMediaType, e.Path, e.ContentType)
}

// TransportError reports an I/O failure while talking to the server.
// Snapshot holds whatever part of the response body could be read.
type TransportError struct {
	Path     string
	Snapshot string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error retrieving server response at %s: %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports calendar data that could not be decoded
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed calendar data at %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
