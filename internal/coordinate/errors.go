package coordinate

import (
	"errors"
	"fmt"

	"github.com/roach88/strata/internal/key"
)

// ValidationCode categorizes validation failures.
type ValidationCode string

const (
	// CodeMalformedKey indicates a key that is nil or matches no key arm's
	// shape (missing tag or identifier, "null" placeholder in a chain).
	CodeMalformedKey ValidationCode = "MALFORMED_KEY"

	// CodeKeyVariantMismatch indicates the wrong key arm for the declared
	// hierarchy (primary where composite expected, or vice versa).
	CodeKeyVariantMismatch ValidationCode = "KEY_VARIANT_MISMATCH"

	// CodeTypeTagMismatch indicates the key's own tag disagrees with the
	// coordinate's own type.
	CodeTypeTagMismatch ValidationCode = "TYPE_TAG_MISMATCH"

	// CodeLocationLengthMismatch indicates a containment chain of the wrong
	// length for the declared hierarchy.
	CodeLocationLengthMismatch ValidationCode = "LOCATION_LENGTH_MISMATCH"

	// CodeLocationOrderMismatch indicates a containment chain whose tags
	// diverge from the declared order. The error carries the first
	// diverging index.
	CodeLocationOrderMismatch ValidationCode = "LOCATION_ORDER_MISMATCH"
)

// ValidationError is a structured validation failure.
//
// All fields except Index are always set. Index is the first diverging chain
// position for order mismatches and -1 otherwise. Validation errors are
// deterministic given their inputs and are never retried.
type ValidationError struct {
	// Code identifies the failure category.
	Code ValidationCode

	// Op is the operation label supplied by the caller (e.g. "orders.get").
	Op string

	// Expected is the tag sequence the coordinate declares, validator order.
	Expected []key.TypeTag

	// Received is the tag sequence the key or chain actually carried.
	Received []key.TypeTag

	// Index is the first diverging chain index, or -1 when not applicable.
	Index int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s: %s (expected %v, received %v, diverges at index %d)",
			e.Op, e.Code, e.Message, e.Expected, e.Received, e.Index)
	}
	return fmt.Sprintf("%s: %s: %s (expected %v, received %v)",
		e.Op, e.Code, e.Message, e.Expected, e.Received)
}

// IsValidationError reports whether err is a ValidationError with the given
// code. Uses errors.As to handle wrapped errors.
func IsValidationError(err error, code ValidationCode) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}

func newValidationError(code ValidationCode, op string, expected, received []key.TypeTag, index int, format string, args ...any) *ValidationError {
	return &ValidationError{
		Code:     code,
		Op:       op,
		Expected: expected,
		Received: received,
		Index:    index,
		Message:  fmt.Sprintf(format, args...),
	}
}
