package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrIllegalTransition = errors.New("illegal transition")
	ErrForbiddenForRole  = errors.New("transition forbidden for role")
	ErrOrderTerminal     = errors.New("order is in a terminal state")
	ErrConflictingWrite  = errors.New("order changed concurrently")
	ErrNotYetAccepted    = errors.New("order not yet accepted by customer")
	ErrAlreadyPaid       = errors.New("invoice already paid")
	ErrInvalidFilter     = errors.New("invalid filter")
)

// TransitionError carries the attempted move alongside the sentinel cause.
type TransitionError struct {
	From string
	To   string
	Role string
	Err  error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s -> %s as %s: %v", e.From, e.To, e.Role, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
