package models

import "errors"

// Result carries collected data together with the errors that were
// logged and suppressed while collecting it.
type Result[T any] struct {
	Data   T
	Errors []error
}

// AddError records a suppressed error.
func (r *Result[T]) AddError(err error) {
	if err != nil {
		r.Errors = append(r.Errors, err)
	}
}

// Partial reports whether anything went wrong while collecting.
func (r Result[T]) Partial() bool {
	return len(r.Errors) > 0
}

// Err joins all suppressed errors, or returns nil.
func (r Result[T]) Err() error {
	return errors.Join(r.Errors...)
}
