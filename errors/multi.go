package errors

import (
	stderrors "errors"
	"strings"
)

// Errors is a non-empty list of errors. A nil Errors means no error occurred, so callers
// compare with nil rather than checking Len.
type Errors interface {
	error
	// Slice returns a copy of the collected (non-nil) errors in the order they were appended.
	Slice() []error
	// Len is always > 0.
	Len() int
}

// list is the only Errors implementation. Append may reuse its backing array, so values that
// escape to another owner are copied first (see Combine).
type list []error

func (l list) Slice() []error {
	return append([]error(nil), l...)
}

func (l list) Len() int {
	return len(l)
}

func (l list) Error() string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Is reports whether any collected error matches target.
func (l list) Is(target error) bool {
	for _, err := range l {
		if stderrors.Is(err, target) {
			return true
		}
	}
	return false
}

// As finds the first collected error that matches target.
func (l list) As(target interface{}) bool {
	for _, err := range l {
		if stderrors.As(err, target) {
			return true
		}
	}
	return false
}

// Append adds err to errs and returns the result; both may be nil. Errors values are
// flattened so the list never nests.
func Append(errs Errors, err error) Errors {
	if err == nil {
		return errs
	}
	var l list
	switch errs := errs.(type) {
	case nil:
	case list:
		l = errs
	default:
		l = errs.Slice()
	}
	if more, ok := err.(Errors); ok {
		return append(l, more.Slice()...)
	}
	return append(l, err)
}

// Combine combines errors e & f into a single error without modifying either
func Combine(e, f error) error {
	if e == nil {
		return f
	}
	if f == nil {
		return e
	}
	var l list
	if errs, ok := e.(Errors); ok {
		l = errs.Slice()
	} else {
		l = list{e}
	}
	return Append(l, f)
}

// Count is the number of errors err stands for: 0 for nil, Len for Errors, 1 otherwise
func Count(err error) int {
	switch err := err.(type) {
	case nil:
		return 0
	case Errors:
		return err.Len()
	default:
		return 1
	}
}

// Defer is a helper method for deferring error-returning functions
func Defer(err *error, f func() error) {
	*err = Combine(*err, f())
}
