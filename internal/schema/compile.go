package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/strata/internal/coordinate"
	"github.com/roach88/strata/internal/key"
)

// CompileError is a structured coordinate-compilation failure with the CUE
// position of the offending field when available.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompileCoordinate parses a CUE value into a Coordinate.
//
// The CUE value should be the coordinate struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`coordinate: orderStep: {kta: ["orderStep", "order"]}`)
//	coord, err := CompileCoordinate(v.LookupPath(cue.ParsePath("coordinate.orderStep")))
func CompileCoordinate(v cue.Value) (coordinate.Coordinate, error) {
	if err := v.Err(); err != nil {
		return coordinate.Coordinate{}, formatCUEError(err)
	}

	ktaVal := v.LookupPath(cue.ParsePath("kta"))
	if !ktaVal.Exists() {
		return coordinate.Coordinate{}, &CompileError{
			Field:   "kta",
			Message: "kta is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := ktaVal.List()
	if err != nil {
		return coordinate.Coordinate{}, &CompileError{
			Field:   "kta",
			Message: fmt.Sprintf("kta must be a list of type tags: %v", err),
			Pos:     ktaVal.Pos(),
		}
	}

	var chain []key.TypeTag
	for iter.Next() {
		tag, err := iter.Value().String()
		if err != nil {
			return coordinate.Coordinate{}, &CompileError{
				Field:   "kta",
				Message: fmt.Sprintf("type tag must be a string: %v", err),
				Pos:     iter.Value().Pos(),
			}
		}
		chain = append(chain, key.TypeTag(tag))
	}
	if len(chain) == 0 {
		return coordinate.Coordinate{}, &CompileError{
			Field:   "kta",
			Message: "kta must declare at least the family's own type",
			Pos:     ktaVal.Pos(),
		}
	}

	var scopes []string
	scopesVal := v.LookupPath(cue.ParsePath("scopes"))
	if scopesVal.Exists() {
		scopeIter, err := scopesVal.List()
		if err != nil {
			return coordinate.Coordinate{}, &CompileError{
				Field:   "scopes",
				Message: fmt.Sprintf("scopes must be a list of strings: %v", err),
				Pos:     scopesVal.Pos(),
			}
		}
		for scopeIter.Next() {
			scope, err := scopeIter.Value().String()
			if err != nil {
				return coordinate.Coordinate{}, &CompileError{
					Field:   "scopes",
					Message: fmt.Sprintf("scope must be a string: %v", err),
					Pos:     scopeIter.Value().Pos(),
				}
			}
			scopes = append(scopes, scope)
		}
	}

	coord, err := coordinate.New(chain, scopes...)
	if err != nil {
		return coordinate.Coordinate{}, &CompileError{
			Field:   "kta",
			Message: err.Error(),
			Pos:     ktaVal.Pos(),
		}
	}
	return coord, nil
}

// CompileRegistry extracts every declaration under the "coordinate" field of
// a CUE value into a Registry.
func CompileRegistry(v cue.Value) (*Registry, error) {
	reg := NewRegistry()

	coordsVal := v.LookupPath(cue.ParsePath("coordinate"))
	if !coordsVal.Exists() {
		return nil, &CompileError{
			Field:   "coordinate",
			Message: "no coordinate declarations found",
			Pos:     v.Pos(),
		}
	}

	iter, err := coordsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		coord, err := CompileCoordinate(iter.Value())
		if err != nil {
			return nil, err
		}
		if err := reg.Register(coord); err != nil {
			return nil, &CompileError{
				Field:   "coordinate." + iter.Label(),
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return reg, nil
}

// formatCUEError wraps a raw CUE error with its position when available.
func formatCUEError(err error) error {
	pos := cueerrors.Positions(err)
	if len(pos) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: err.Error(),
			Pos:     pos[0],
		}
	}
	return &CompileError{Field: "cue", Message: err.Error()}
}
