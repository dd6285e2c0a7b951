package transport

import (
	"fmt"

	resolverrors "github.com/gruntwork-io/artifact-resolver/errors"
)

// ErrorClass is the coarse outcome classify() maps an error to (spec §4.4):
// callers branch on this instead of inspecting transporter-internal error
// types.
type ErrorClass int

const (
	ErrorOther ErrorClass = iota
	ErrorNotFound
)

// HttpResponseException is raised for any HTTP status >= 300 (spec §7,
// "Transport-protocol errors").
type HttpResponseException struct {
	StatusCode int
	Status     string
}

func (e *HttpResponseException) Error() string {
	return fmt.Sprintf("transport: unexpected HTTP status %s", e.Status)
}

// TransferCancelledError is raised when a progress listener signals
// cancellation (spec §4.4 "Cancellation", §5).
type TransferCancelledError struct {
	Cause error
}

func (e *TransferCancelledError) Error() string { return "transport: transfer cancelled" }
func (e *TransferCancelledError) Unwrap() error { return e.Cause }

// Classify maps err to the coarse ErrorClass callers branch on (spec §4.4,
// §7: "Status 404 maps to ERROR_NOT_FOUND via classify. Other statuses map
// to ERROR_OTHER"). Exposed as a first-class capability -- not buried as an
// unexported helper -- so callers outside this package (e.g. a future
// resolveArtifact dispatcher retrying across repositories) can branch on it
// without reaching into transporter internals.
func Classify(err error) ErrorClass {
	var httpErr *HttpResponseException
	if resolverrors.As(err, &httpErr) && httpErr.StatusCode == 404 {
		return ErrorNotFound
	}
	return ErrorOther
}

// unwrapCancellation finds a TransferCancelledError anywhere in err's chain,
// unwrapping an I/O error that wraps one so callers can distinguish
// cancellation from a genuine network failure (spec §4.4 "Cancellation").
func unwrapCancellation(err error) error {
	var cancelled *TransferCancelledError
	if resolverrors.As(err, &cancelled) {
		return cancelled
	}
	return err
}
