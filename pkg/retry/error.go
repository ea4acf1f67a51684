package retry

import (
	stderrors "errors"
	"fmt"

	"github.com/sot/ska-helpers/errors"
)

// Failure records one failed attempt within a retry session.
type Failure struct {
	// Attempt is the 1-based attempt number.
	Attempt int

	// Type is the dynamic Go type of the error, e.g. "*net.OpError".
	Type string

	// Err is the error returned by the attempt, unaltered.
	Err error

	// Stack is the goroutine stack captured at the failure site.
	Stack []byte
}

// Error is returned on exhaustion when the recorded failures are
// heterogeneous: different error types, or the same type with different
// messages, occurred across the session. Homogeneous exhaustion returns the
// original error unchanged instead, so callers keep their errors.Is/As
// ergonomics for the common "same fault N times" case.
type Error struct {
	// Op is the operation name from the policy, if any.
	Op string

	// Failures holds every attempt's failure in order.
	Failures []Failure
}

func (e *Error) Error() string {
	op := e.Op
	if op == "" {
		op = "call"
	}
	last := e.Failures[len(e.Failures)-1]
	return fmt.Sprintf("retry: %s exhausted after %d attempts, last: %v",
		op, len(e.Failures), last.Err)
}

// Unwrap exposes every recorded failure to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Is matches the shared exhaustion sentinel so callers can branch on
// errors.Is(err, errors.ErrMaxRetriesExceeded) without importing this
// package's types.
func (e *Error) Is(target error) bool {
	return target == errors.ErrMaxRetriesExceeded
}

// NonRetryableError wraps errors that must not be retried even when the
// policy's matcher would otherwise accept them.
type NonRetryableError struct {
	Err error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable: %v", e.Err)
}

func (e *NonRetryableError) Unwrap() error {
	return e.Err
}

// NonRetryable marks an error as non-retryable.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetryableError{Err: err}
}

// IsNonRetryable checks if an error carries the non-retryable marker.
func IsNonRetryable(err error) bool {
	var nre *NonRetryableError
	return stderrors.As(err, &nre)
}
