// Package errors provides the error helpers used throughout the resolver.
//
// It wraps github.com/go-errors/errors for stack-traced errors and
// github.com/hashicorp/go-multierror for accumulating the non-fatal
// exceptions a collect() pass gathers per node, the same split terragrunt
// itself uses (see config/config.go and configstack/test_helpers.go).
package errors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
	"github.com/hashicorp/go-multierror"
)

// New wraps v (an error or a string) with a stack trace captured at the
// call site.
func New(v interface{}) error {
	if v == nil {
		return nil
	}
	return goerrors.Wrap(v, 1)
}

// Errorf formats according to format and returns a stack-traced error.
func Errorf(format string, args ...interface{}) error {
	return goerrors.Wrap(fmt.Errorf(format, args...), 1)
}

// WithStackTrace annotates err with a stack trace if it doesn't already
// carry one. Returns nil if err is nil.
func WithStackTrace(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, 1)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// IsError reports whether actual is, or wraps, expected, or carries the same
// error message as expected.
func IsError(actual, expected error) bool {
	if actual == nil || expected == nil {
		return actual == expected
	}
	return errors.Is(actual, expected) || actual.Error() == expected.Error()
}

// MultiError accumulates a list of independent, non-fatal errors. It is used
// by the collector to gather per-node ArtifactDescriptorException/
// VersionRangeResolutionException values without aborting the whole collect.
type MultiError struct {
	*multierror.Error
}

// Append records err into the MultiError and returns the receiver so calls
// can be chained: errs = errs.Append(err).
func (m *MultiError) Append(err error) *MultiError {
	if err == nil {
		return m
	}
	if m.Error == nil {
		m.Error = &multierror.Error{}
	}
	m.Error = multierror.Append(m.Error, err)
	return m
}

// ErrorOrNil returns nil if no errors were ever appended.
func (m *MultiError) ErrorOrNil() error {
	if m == nil || m.Error == nil {
		return nil
	}
	return m.Error.ErrorOrNil()
}

// Errors returns the accumulated error list.
func (m *MultiError) Errors() []error {
	if m == nil || m.Error == nil {
		return nil
	}
	return m.Error.Errors
}

// Len reports how many errors have been accumulated.
func (m *MultiError) Len() int {
	if m == nil || m.Error == nil {
		return 0
	}
	return len(m.Error.Errors)
}
