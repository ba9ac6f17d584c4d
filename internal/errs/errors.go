// Package errs defines the error taxonomy crossing use-case boundaries.
// Handlers map these to structured {success:false, error} results; anything
// else is treated as an internal error.
package errs

import (
	"errors"
	"fmt"
)

// ErrConcurrentUpdate is returned when an optimistic version check fails:
// another writer touched the inventory row between read and write.
var ErrConcurrentUpdate = errors.New("inventory row was modified concurrently")

// ValidationError reports malformed input. Always recoverable by the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports a debit exceeding available quantity.
type InsufficientStockError struct {
	Requested float64
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %g, available %g", e.Requested, e.Available)
}

// NotFoundError reports a missing referenced entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ExternalSourceError reports a failure talking to the legacy system.
// Fatal for an entire sync run.
type ExternalSourceError struct {
	Op  string
	Err error
}

func (e *ExternalSourceError) Error() string {
	return fmt.Sprintf("legacy source: %s: %v", e.Op, e.Err)
}

func (e *ExternalSourceError) Unwrap() error { return e.Err }

// IsDomain reports whether err belongs to the recoverable taxonomy, i.e. it is
// safe to surface its message to the caller verbatim.
func IsDomain(err error) bool {
	var ve *ValidationError
	var ise *InsufficientStockError
	var nfe *NotFoundError
	return errors.As(err, &ve) || errors.As(err, &ise) || errors.As(err, &nfe) ||
		errors.Is(err, ErrConcurrentUpdate)
}
