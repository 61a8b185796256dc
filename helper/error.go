package helper

import "fmt"

// Error wraps an error with the step that failed.
// Unwrap keeps errors.Is and errors.As working on the wrapped error.
type Error struct {
	Step string
	Err  error
}

// NewError wraps err with the failing step. A nil err yields nil.
func NewError(step string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Step: step, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("error %s: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
