package coordinate

import (
	"github.com/roach88/strata/internal/key"
)

// ValidateKey confirms k's shape agrees with the declared hierarchy.
//
// Checks run cheapest first and stop at the first failure:
//  1. nil or structurally unusable key (missing tag/identifier) -> MalformedKey
//  2. wrong arm for the hierarchy depth -> KeyVariantMismatch
//  3. own tag disagrees with the coordinate -> TypeTagMismatch
//  4. located composite: chain length, then chain order against Ancestors
//
// An UnlocatedComKey passes step 4 untouched: a foreign-key reference carries
// no chain to check. It is still subject to steps 1-3 and is rejected for
// single-level hierarchies, where there is no containment to be unknown about.
func ValidateKey(k key.ItemKey, coord Coordinate, op string) error {
	expected := coord.ValidatorChain()

	if k == nil {
		return newValidationError(CodeMalformedKey, op, expected, nil, -1,
			"key is nil")
	}
	if !(key.LocKey{KT: k.Type(), LK: k.Primary()}).Present() {
		return newValidationError(CodeMalformedKey, op, expected, key.TypeChain(k), -1,
			"key is missing its type tag or primary identifier")
	}

	switch kk := k.(type) {
	case key.PriKey:
		if coord.Depth() > 1 {
			return newValidationError(CodeKeyVariantMismatch, op, expected, key.TypeChain(k), -1,
				"hierarchy declares %d levels but key is a primary key; use a composite key with a %d-element location chain",
				coord.Depth(), coord.Depth()-1)
		}
	case key.UnlocatedComKey:
		if coord.Depth() == 1 {
			return newValidationError(CodeKeyVariantMismatch, op, expected, key.TypeChain(k), -1,
				"hierarchy declares a single level but key is a composite key; use a primary key")
		}
	case key.ComKey:
		if coord.Depth() == 1 {
			return newValidationError(CodeKeyVariantMismatch, op, expected, key.TypeChain(k), -1,
				"hierarchy declares a single level but key is a composite key; use a primary key")
		}
		if kk.Type() != coord.OwnType {
			return newValidationError(CodeTypeTagMismatch, op, expected, key.TypeChain(k), -1,
				"key type %q does not match declared type %q", kk.Type(), coord.OwnType)
		}
		return validateChain(kk.Loc, coord, op, key.TypeChain(k))
	}

	if k.Type() != coord.OwnType {
		return newValidationError(CodeTypeTagMismatch, op, expected, key.TypeChain(k), -1,
			"key type %q does not match declared type %q", k.Type(), coord.OwnType)
	}
	return nil
}

// ValidateLocationChain confirms a standalone location chain agrees with the
// declared hierarchy. Bulk operations validate their "locations" parameter
// this way. An empty or nil chain always passes: it means a root-level
// operation with no containment filter.
func ValidateLocationChain(chain []key.LocKey, coord Coordinate, op string) error {
	if len(chain) == 0 {
		return nil
	}
	received := make([]key.TypeTag, 0, len(chain)+1)
	received = append(received, coord.OwnType)
	for _, loc := range chain {
		received = append(received, loc.KT)
	}
	return validateChain(chain, coord, op, received)
}

// validateChain applies the length, presence, and order checks shared by
// ValidateKey step 4 and ValidateLocationChain.
func validateChain(chain []key.LocKey, coord Coordinate, op string, received []key.TypeTag) error {
	expected := coord.ValidatorChain()

	if len(chain) != len(coord.Ancestors) {
		return newValidationError(CodeLocationLengthMismatch, op, expected, received, -1,
			"location chain has %d entries, hierarchy declares %d", len(chain), len(coord.Ancestors))
	}
	for i, loc := range chain {
		if !loc.Present() {
			return newValidationError(CodeMalformedKey, op, expected, received, i,
				"location chain entry %d is missing its type tag or identifier", i)
		}
		if loc.KT != coord.Ancestors[i] {
			return newValidationError(CodeLocationOrderMismatch, op, expected, received, i,
				"location chain diverges at index %d: expected %q, received %q", i, coord.Ancestors[i], loc.KT)
		}
	}
	return nil
}

// Result is the non-throwing outcome of a Try variant: Valid with a nil
// error, or invalid with the structured failure attached.
type Result struct {
	Valid bool
	Err   *ValidationError
}

// TryValidateKey is the non-throwing variant of ValidateKey, for call sites
// that degrade gracefully (user-facing forms) instead of failing hard.
func TryValidateKey(k key.ItemKey, coord Coordinate, op string) Result {
	return toResult(ValidateKey(k, coord, op))
}

// TryValidateLocationChain is the non-throwing variant of
// ValidateLocationChain.
func TryValidateLocationChain(chain []key.LocKey, coord Coordinate, op string) Result {
	return toResult(ValidateLocationChain(chain, coord, op))
}

func toResult(err error) Result {
	if err == nil {
		return Result{Valid: true}
	}
	if ve, ok := err.(*ValidationError); ok {
		return Result{Valid: false, Err: ve}
	}
	return Result{Valid: false, Err: &ValidationError{
		Code:    CodeMalformedKey,
		Message: err.Error(),
		Index:   -1,
	}}
}
