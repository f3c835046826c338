package seqmatch

import (
	"errors"
	"fmt"

	"github.com/gitrfl/discrimnet/expr"
)

// Common sequence matcher errors.
var (
	// ErrShape indicates a pattern offered to Add does not have the
	// required f(x*, s1, ..., sn, y*) shape.
	ErrShape = errors.New("seqmatch: pattern does not have the required f(x*, s1..sn, y*) shape")

	// ErrHeadMismatch indicates a pattern's outer head differs from the
	// head already established by an earlier Add call.
	ErrHeadMismatch = errors.New("seqmatch: pattern's outer head does not match this matcher's established head")
)

// ShapeError wraps ErrShape with the specific reason the pattern was
// rejected.
type ShapeError struct {
	Reason string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("seqmatch: %s", e.Reason)
}

// Unwrap returns ErrShape so callers can use errors.Is.
func (e *ShapeError) Unwrap() error {
	return ErrShape
}

// HeadMismatchError wraps ErrHeadMismatch with the expected and actual
// operation kinds.
type HeadMismatchError struct {
	Expected *expr.OperationKind
	Got      *expr.OperationKind
}

// Error implements the error interface.
func (e *HeadMismatchError) Error() string {
	return fmt.Sprintf("seqmatch: all patterns must share one outer head: expected %q, got %q",
		e.Expected.HeadName(), e.Got.HeadName())
}

// Unwrap returns ErrHeadMismatch so callers can use errors.Is.
func (e *HeadMismatchError) Unwrap() error {
	return ErrHeadMismatch
}
