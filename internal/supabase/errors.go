package supabase

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed. The original client flattened
// every failure to "no data"; the kinds keep the same coarse surface while
// letting callers and tests tell the cases apart.
type Kind string

const (
	// KindTransport covers network errors, timeouts and anything that
	// prevented a response from arriving at all.
	KindTransport Kind = "transport"

	// KindStatus means the backend answered with a non-2xx status.
	KindStatus Kind = "status"

	// KindDecode means the response body (or a request payload) could not
	// be encoded or decoded as the expected JSON shape.
	KindDecode Kind = "decode"
)

// ErrInvalidCredentials is returned by CheckLogin when the backend answers
// successfully but no user row matches.
var ErrInvalidCredentials = errors.New("invalid login or password")

// errEmptyRepresentation means the backend honored return=representation
// but echoed an empty array.
var errEmptyRepresentation = errors.New("empty representation in response")

// Error is a classified operation failure.
type Error struct {
	Op     string
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("supabase %s: unexpected status %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("supabase %s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from err, or "" if err is not a
// classified supabase error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
