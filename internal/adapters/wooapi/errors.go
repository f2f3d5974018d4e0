package wooapi

import (
	"errors"
	"fmt"
)

// The client distinguishes three failure classes so callers and logs can
// tell an upstream outage from upstream contract drift.

// TransportError indicates the request never produced a usable response:
// connection refused, DNS failure, timeout, interrupted body.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure calling %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnexpectedStatusError indicates the upstream answered with a status code
// other than the one the call site expects.
type UnexpectedStatusError struct {
	URL    string
	Status int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}

// SchemaMismatchError indicates the upstream answered successfully but the
// payload or headers do not conform to the documented contract.
type SchemaMismatchError struct {
	URL    string
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("response from %s does not match expected schema: %s", e.URL, e.Reason)
}

// IsTransportError checks whether the error is a transport failure.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsUnexpectedStatusError checks whether the error is an unexpected
// upstream status code.
func IsUnexpectedStatusError(err error) bool {
	var e *UnexpectedStatusError
	return errors.As(err, &e)
}

// IsSchemaMismatchError checks whether the error is an upstream contract
// violation.
func IsSchemaMismatchError(err error) bool {
	var e *SchemaMismatchError
	return errors.As(err, &e)
}
