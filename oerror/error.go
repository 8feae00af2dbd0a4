package oerror

import "fmt"

// LocomotionError is the error type returned by every package of the module. It
// optionally wraps the error that caused it.
type LocomotionError struct {
	Err   string
	cause error
}

// New formats a new LocomotionError. A %w verb in the format string records the
// matching argument as the cause, so errors.Is and errors.As see through it.
func New(format string, args ...any) *LocomotionError {
	err := fmt.Errorf(format, args...)
	return &LocomotionError{Err: err.Error(), cause: errorsUnwrap(err)}
}

func (e *LocomotionError) Error() string {
	return e.Err
}

func (e *LocomotionError) Unwrap() error {
	return e.cause
}

func errorsUnwrap(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return nil
}
