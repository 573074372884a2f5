package gallery

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that no prompt row exists for the requested id.
var ErrNotFound = errors.New("prompt not found")

// ValidationError covers missing or empty required fields and malformed
// import payloads. Handlers map it to 400.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

func missingField(field string) *ValidationError {
	return &ValidationError{Detail: field + " is required"}
}

// UpstreamError wraps a failed database or storage call. Handlers map it
// to 500 and surface the detail string.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}
