package backend

import (
	"errors"
	"fmt"
)

// TransportError indicates the request never produced an HTTP response:
// connection refused, DNS failure, timeout.
type TransportError struct {
	Op  string // which call failed, e.g. "generate-questions"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError indicates the backend answered with a non-2xx status.
type ServerError struct {
	Op     string
	Status int
	Body   string // first bytes of the response body, for the error message
}

func (e *ServerError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: server returned %d", e.Op, e.Status)
}

// MalformedResponse indicates the backend answered 2xx but the body did not
// parse or did not match the expected shape. Treated as a hard failure;
// there is no partial parse.
type MalformedResponse struct {
	Op  string
	Err error
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponse) Unwrap() error { return e.Err }

// IsRemoteFailure reports whether err is any of the backend failure kinds.
func IsRemoteFailure(err error) bool {
	var te *TransportError
	var se *ServerError
	var me *MalformedResponse
	return errors.As(err, &te) || errors.As(err, &se) || errors.As(err, &me)
}
