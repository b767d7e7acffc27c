package ledger

import "fmt"

// ValidationError is returned when a request violates an input constraint.
// Nothing is appended when it is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Is matches validation errors by message so the sentinels below work with errors.Is.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Msg == e.Msg
}

var (
	ErrNegativeAmount  = &ValidationError{Msg: "amount must be non-negative"}
	ErrInvalidLocation = &ValidationError{Msg: "invalid location"}
	ErrAmountTooLarge  = &ValidationError{Msg: "amount must not exceed " + MaxAmount.StringFixed(2)}
	ErrBalanceRange    = &ValidationError{Msg: "balance would exceed " + MaxAmount.StringFixed(2)}
)

// PersistenceError is returned when the store could not durably complete an operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
