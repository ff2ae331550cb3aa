package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// Failure kinds shared by every package in the module. Errors returned by constructors and by the
// stream loop wrap exactly one of these, so callers dispatch with Is.
var (
	// ErrConfiguration is returned for invalid construction parameters (capacity, budget rate, ...).
	ErrConfiguration = stderrors.New("configuration error")
	// ErrUnavailableCollaborator is returned when a strategy needs a classifier it was not given.
	ErrUnavailableCollaborator = stderrors.New("unavailable collaborator")
	// ErrState is returned when the one-update-per-instance budget protocol is violated.
	ErrState = stderrors.New("state error")
	// ErrRecoverableFit is returned by classifiers whose refit failed on a degenerate window.
	// The previous classifier state is still usable.
	ErrRecoverableFit = stderrors.New("recoverable fit error")
	// ErrFatalProtocol marks errors that halt the stream loop.
	ErrFatalProtocol = stderrors.New("fatal protocol error")
)

// Errorf is re-exported from fmt
var Errorf = fmt.Errorf

// New is an alias to Errorf
var New = Errorf

// Is is re-exported from the standard errors package
var Is = stderrors.Is

// As is re-exported from the standard errors package
var As = stderrors.As

// Configurationf returns an error matching ErrConfiguration
func Configurationf(format string, args ...interface{}) error {
	return errors.WithMessage(ErrConfiguration, fmt.Sprintf(format, args...))
}

// Unavailablef returns an error matching ErrUnavailableCollaborator
func Unavailablef(format string, args ...interface{}) error {
	return errors.WithMessage(ErrUnavailableCollaborator, fmt.Sprintf(format, args...))
}

// Statef returns an error matching ErrState
func Statef(format string, args ...interface{}) error {
	return errors.WithMessage(ErrState, fmt.Sprintf(format, args...))
}

// RecoverableFitf returns an error matching ErrRecoverableFit
func RecoverableFitf(format string, args ...interface{}) error {
	return errors.WithMessage(ErrRecoverableFit, fmt.Sprintf(format, args...))
}

// fatal keeps the original cause reachable through Unwrap while also matching ErrFatalProtocol.
type fatal struct {
	cause error
}

func (f fatal) Error() string {
	return fmt.Sprintf("%s: %v", ErrFatalProtocol, f.cause)
}

func (f fatal) Unwrap() error {
	return f.cause
}

func (f fatal) Is(target error) bool {
	return target == ErrFatalProtocol
}

// Fatal marks err as a FatalProtocolError. It returns nil for a nil error and does not double wrap.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, ErrFatalProtocol) {
		return err
	}
	return fatal{cause: err}
}

// WrapfOrNil is WithMessagef re-exported from github.com/pkg/errors
func WrapfOrNil(err error, format string, args ...interface{}) error {
	// do this check here to avoid the excessive format below
	// even though WithMessage does it
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, fmt.Sprintf(format, args...))
}

// Wrapf is WrapfOrNil if err != nil, and Errorf otherwise: it never returns nil
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return Errorf(format, args...)
	}
	return WrapfOrNil(err, format, args...)
}
