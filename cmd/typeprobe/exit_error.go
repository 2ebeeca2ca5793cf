package main

import "fmt"

// Exit codes.
const (
	// ExitMismatch means a battery ran and some expectation did not hold.
	ExitMismatch = 1
	// ExitInvalid means the input could not be evaluated at all.
	ExitInvalid = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
