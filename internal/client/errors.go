package client

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	// KindAuthenticationMissing means no bearer token was available; the
	// failure happens before any network call.
	KindAuthenticationMissing Kind = "authentication_missing"
	// KindUpstreamRequestFailed means the presign or start-processing call
	// returned a non-success status or could not be sent.
	KindUpstreamRequestFailed Kind = "upstream_request_failed"
	// KindTransportFailed means the byte upload to storage was rejected or
	// the connection failed mid-transfer.
	KindTransportFailed Kind = "transport_failed"
	// KindJobFailed means the backend reported terminal failure for the job.
	KindJobFailed Kind = "job_failed"
	// KindPollingTransportFailed means a status-poll request itself failed,
	// as opposed to the job failing.
	KindPollingTransportFailed Kind = "polling_transport_failed"
	// KindTimeout means the polling budget was exhausted before the job
	// reached a terminal status.
	KindTimeout Kind = "timeout"
)

// Error carries a failure kind plus a human-readable message. The message
// includes upstream-provided detail text when the backend supplied any, so
// the caller can render it verbatim.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a typed pipeline error.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates a typed pipeline error around an underlying cause.
func WrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err (or anything it wraps) is a pipeline error of
// the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}
