package query

import (
	"errors"
	"fmt"

	"github.com/roach88/strata/internal/key"
	"github.com/roach88/strata/internal/value"
)

// OperatorError is a malformed-predicate failure: an operator applied to a
// literal it is not defined for. Distinct from a non-match - the evaluation
// call fails entirely. Deterministic given its inputs; never retried.
type OperatorError struct {
	// Column is the state field the condition addressed.
	Column string

	// Operator is the offending operator.
	Operator Operator

	// Message describes the illegal combination.
	Message string
}

// Error implements the error interface.
func (e *OperatorError) Error() string {
	return fmt.Sprintf("invalid predicate operator %q on column %q: %s", e.Operator, e.Column, e.Message)
}

// IsOperatorError reports whether err is an OperatorError.
// Uses errors.As to handle wrapped errors.
func IsOperatorError(err error) bool {
	var oe *OperatorError
	return errors.As(err, &oe)
}

// Matches reports whether item satisfies q.
//
// Clause order:
//  1. Refs: every named reference in the query must exist on the item and
//     compare exactly equal. A query with refs against an item without a
//     refs map is a non-match.
//  2. Condition tree, evaluated depth-first. Missing fields are non-matches,
//     not errors.
//  3. Events: every named window must find an event with a non-nil timestamp
//     inside [start, end). A present events clause returns immediately after
//     evaluation, bypassing aggs. That asymmetry is load-bearing for
//     existing consumers; do not fold events and aggs into one conjunction.
//  4. Aggs: for each named aggregation, at least one sub-item must match the
//     nested sub-query (existential, not universal).
//
// The only errors are malformed predicates (see OperatorError); everything
// else unsatisfied is (false, nil).
func Matches(item Item, q ItemQuery) (bool, error) {
	if len(q.Refs) > 0 {
		if !matchesRefs(item, q.Refs) {
			return false, nil
		}
	}

	if q.Condition != nil {
		ok, err := evalNode(item, q.Condition)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	// Events short-circuit: a present events clause decides the match by
	// itself, aggs are not consulted.
	if len(q.Events) > 0 {
		return matchesEvents(item, q.Events), nil
	}

	if len(q.Aggs) > 0 {
		return matchesAggs(item, q.Aggs)
	}

	return true, nil
}

// matchesRefs checks every named query reference for exact key equality.
func matchesRefs(item Item, refs map[string]key.ItemKey) bool {
	if item.Refs == nil {
		return false
	}
	for name, want := range refs {
		got, ok := item.Refs[name]
		if !ok {
			return false
		}
		if !key.Equals(got, want) {
			return false
		}
	}
	return true
}

// matchesEvents checks every named window against the item's events.
func matchesEvents(item Item, windows map[string]EventWindow) bool {
	for name, window := range windows {
		event, ok := item.Events[name]
		if !ok || event.At == nil {
			return false
		}
		if !window.Contains(*event.At) {
			return false
		}
	}
	return true
}

// matchesAggs checks every named aggregation for at least one matching
// sub-item.
func matchesAggs(item Item, aggs map[string]*ItemQuery) (bool, error) {
	if item.Aggs == nil {
		return false, nil
	}
	for name, sub := range aggs {
		children, ok := item.Aggs[name]
		if !ok {
			return false, nil
		}
		if sub == nil {
			// No sub-query means "any child": non-empty array suffices.
			if len(children) == 0 {
				return false, nil
			}
			continue
		}
		found := false
		for _, child := range children {
			match, err := Matches(child, *sub)
			if err != nil {
				return false, err
			}
			if match {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}

// evalNode evaluates one condition-tree node depth-first.
func evalNode(item Item, node Node) (bool, error) {
	switch n := node.(type) {
	case Condition:
		return evalCondition(item, n)
	case *Condition:
		return evalCondition(item, *n)
	case Compound:
		return evalCompound(item, n)
	case *Compound:
		return evalCompound(item, *n)
	default:
		return false, fmt.Errorf("unknown condition node type: %T", node)
	}
}

// evalCompound evaluates an AND/OR node over its children.
// AND over zero children is vacuously true; OR over zero children is false.
func evalCompound(item Item, c Compound) (bool, error) {
	switch c.Type {
	case CompoundAnd:
		for _, child := range c.Conditions {
			ok, err := evalNode(item, child)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case CompoundOr:
		for _, child := range c.Conditions {
			ok, err := evalNode(item, child)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unknown compound type: %q", c.Type)
	}
}

// evalCondition evaluates a leaf condition against one state field.
func evalCondition(item Item, cond Condition) (bool, error) {
	literal := cond.Value
	if literal == nil {
		literal = value.Null{}
	}

	if _, isNull := literal.(value.Null); isNull {
		// Null literals support equality only; anything else is a
		// programming error, not a non-match.
		switch cond.Operator {
		case OpEq, OpNeq:
		default:
			return false, &OperatorError{
				Column:   cond.Column,
				Operator: cond.Operator,
				Message:  "only == and != may compare against null",
			}
		}
	}

	field, ok := item.State[cond.Column]
	if !ok {
		return false, nil
	}

	switch cond.Operator {
	case OpEq:
		return value.Equal(field, literal), nil
	case OpNeq:
		return !value.Equal(field, literal), nil
	case OpGt, OpGte, OpLt, OpLte:
		ord, orderable := value.Compare(field, literal)
		if !orderable {
			return false, nil
		}
		switch cond.Operator {
		case OpGt:
			return ord > 0, nil
		case OpGte:
			return ord >= 0, nil
		case OpLt:
			return ord < 0, nil
		default:
			return ord <= 0, nil
		}
	case OpIn, OpNotIn:
		set, ok := literal.(value.Array)
		if !ok {
			return false, &OperatorError{
				Column:   cond.Column,
				Operator: cond.Operator,
				Message:  "literal must be an array",
			}
		}
		member := value.Contains(set, field)
		if cond.Operator == OpIn {
			return member, nil
		}
		return !member, nil
	case OpArrayContains:
		// Field shape is data, not predicate: a non-array field is a
		// non-match, not an error.
		return value.Contains(field, literal), nil
	case OpArrayContainsAny:
		candidates, ok := literal.(value.Array)
		if !ok {
			return false, &OperatorError{
				Column:   cond.Column,
				Operator: cond.Operator,
				Message:  "literal must be an array",
			}
		}
		for _, candidate := range candidates {
			if value.Contains(field, candidate) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, &OperatorError{
			Column:   cond.Column,
			Operator: cond.Operator,
			Message:  "unsupported operator",
		}
	}
}
